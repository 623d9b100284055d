// Package similarity scores stored documents against each other over their
// term frequency mappings.
package similarity

import (
	"fmt"
	"sort"

	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// Neighbor is one ranked entry from a nearest-neighbor query.
type Neighbor struct {
	ID    domain.DocID
	Name  string
	Label domain.ClassLabel
	Score float64
}

// Service answers pairwise and top-k similarity queries.
type Service struct {
	docs        DocumentReader
	defaultTopK int
	maxTopK     int
}

// New creates a similarity service.
func New(docs DocumentReader) *Service {
	return &Service{docs: docs, defaultTopK: 10, maxTopK: 100}
}

// WithTopK configures neighbor result limits.
func (s *Service) WithTopK(defaultTopK, maxTopK int) *Service {
	if defaultTopK > 0 {
		s.defaultTopK = defaultTopK
	}
	if maxTopK > 0 {
		s.maxTopK = maxTopK
	}
	return s
}

// Compare scores two stored documents under the given metric.
func (s *Service) Compare(a, b domain.DocID, metric domain.Metric) (float64, error) {
	docA, err := s.docs.Get(a)
	if err != nil {
		return 0, fmt.Errorf("get document %d: %w", a, err)
	}
	docB, err := s.docs.Get(b)
	if err != nil {
		return 0, fmt.Errorf("get document %d: %w", b, err)
	}
	return score(docA, docB, metric)
}

// Neighbors ranks every other stored document against the query document and
// returns the topK highest scoring, descending. Ties break on ascending ID so
// rankings are stable across calls.
func (s *Service) Neighbors(id domain.DocID, metric domain.Metric, topK int) ([]Neighbor, error) {
	query, err := s.docs.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}

	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	all := s.docs.All()
	ranked := make([]Neighbor, 0, len(all))
	for i := range all {
		if all[i].ID() == id {
			continue
		}
		sc, err := score(query, all[i], metric)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, Neighbor{
			ID:    all[i].ID(),
			Name:  all[i].Name(),
			Label: all[i].Label(),
			Score: sc,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

func score(a, b document.Document, metric domain.Metric) (float64, error) {
	switch metric {
	case domain.MetricJaccard:
		return document.JaccardSimilarity(a, b), nil
	case domain.MetricCosine:
		return document.CosineSimilarity(a, b), nil
	default:
		return 0, fmt.Errorf("metric %q: %w", metric, domain.ErrUnknownMetric)
	}
}
