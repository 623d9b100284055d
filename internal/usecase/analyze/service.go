// Package analyze drains a corpus through the tokenizer into the document
// store. This is the ingest path: after Load returns, the store holds every
// document with its term frequencies resolved.
package analyze

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loomstack/termdex/internal/metrics"
)

// Stats summarizes a corpus load.
type Stats struct {
	Documents int
	Tokens    int
}

// Service loads corpora.
type Service struct {
	tok        Tokenizer
	store      DocumentWriter
	log        *zap.Logger
	corpusKind string
}

// New creates an analyze service. kind labels the load metrics.
func New(tok Tokenizer, store DocumentWriter, log *zap.Logger, kind string) *Service {
	return &Service{tok: tok, store: store, log: log, corpusKind: kind}
}

// Load consumes the corpus to exhaustion, tokenizing and storing each
// document. Stops early if ctx is canceled.
func (s *Service) Load(ctx context.Context, c Corpus) (Stats, error) {
	var stats Stats

	for c.HasNext() {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("corpus load canceled: %w", err)
		}

		doc, err := c.Next()
		if err != nil {
			return stats, fmt.Errorf("read corpus document: %w", err)
		}

		tokens := s.tok.Tokenize(&doc)
		s.store.Put(doc)

		stats.Documents++
		stats.Tokens += tokens
		metrics.CorpusDocumentsTotal.WithLabelValues(s.corpusKind).Inc()
		metrics.CorpusTokensTotal.WithLabelValues(s.corpusKind).Add(float64(tokens))

		if stats.Documents%1000 == 0 {
			s.log.Info("corpus load progress",
				zap.Int("documents", stats.Documents),
				zap.Int("tokens", stats.Tokens),
			)
		}
	}

	s.log.Info("corpus load complete",
		zap.String("kind", s.corpusKind),
		zap.Int("documents", stats.Documents),
		zap.Int("tokens", stats.Tokens),
	)
	return stats, nil
}
