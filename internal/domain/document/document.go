package document

import (
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/loomstack/termdex/internal/domain"
)

// Document is one indexable unit of text: identity, classification label,
// and a sparse term -> weight mapping. It may additionally carry the raw
// text it was built from. The frequency mapping is empty at construction
// and filled by Increment as the tokenizer feeds resolved terms.
//
// Document is a plain value object with no external lifetime dependencies.
// Read paths take it by value; Clone produces a fully independent copy.
type Document struct {
	path            string
	name            string
	id              domain.DocID
	label           domain.ClassLabel
	length          float64
	frequencies     map[domain.TermID]float64
	content         string
	containsContent bool
}

// LabelMapping assigns stable integers to class labels, inserting on first
// use. Shared across documents during an export run; implementations own
// their synchronization.
type LabelMapping interface {
	GetOrAssign(label domain.ClassLabel) (int, error)
}

// New creates an empty document sourced from path. An empty label means
// unclassified (domain.NoLabel). The short name is the final path component.
func New(path string, id domain.DocID, label domain.ClassLabel) Document {
	if label == "" {
		label = domain.NoLabel
	}
	return Document{
		path:        path,
		name:        filepath.Base(path),
		id:          id,
		label:       label,
		frequencies: make(map[domain.TermID]float64),
	}
}

// Increment adds amount to the stored weight for term, creating the entry
// if absent, and adds amount to the document length. Negative amounts are
// accepted and produce the corresponding arithmetic result. Non-finite
// amounts are dropped: every stored weight stays finite.
func (d *Document) Increment(term domain.TermID, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}
	if d.frequencies == nil {
		d.frequencies = make(map[domain.TermID]float64)
	}
	d.frequencies[term] += amount
	d.length += amount
}

// Frequency returns the stored weight for term, or 0 if the term has no entry.
func (d *Document) Frequency(term domain.TermID) float64 {
	return d.frequencies[term]
}

// Frequencies returns the sparse term -> weight mapping for iteration.
// Callers must not mutate it.
func (d *Document) Frequencies() map[domain.TermID]float64 { return d.frequencies }

// Length returns the total of all increment amounts recorded for this
// document. This is not the number of distinct terms.
func (d *Document) Length() float64 { return d.length }

// ID returns the corpus-assigned document identifier.
func (d *Document) ID() domain.DocID { return d.id }

// Path returns the on-disk location this document was sourced from.
func (d *Document) Path() string { return d.path }

// Name returns the short name (final path component).
func (d *Document) Name() string { return d.name }

// Label returns the classification category of this document.
func (d *Document) Label() domain.ClassLabel { return d.label }

// SetLabel assigns a classification category. No validation is performed.
func (d *Document) SetLabel(label domain.ClassLabel) { d.label = label }

// SetContent stores the raw text payload. Only some corpus formats keep
// content on the document itself.
func (d *Document) SetContent(content string) {
	d.content = content
	d.containsContent = true
}

// Content returns the raw text payload, empty if none was stored.
func (d *Document) Content() string { return d.content }

// ContainsContent reports whether SetContent has been called, distinguishing
// an empty payload from no payload.
func (d *Document) ContainsContent() bool { return d.containsContent }

// Clone returns a deep, independent copy.
func (d *Document) Clone() Document {
	c := *d
	c.frequencies = make(map[domain.TermID]float64, len(d.frequencies))
	for t, w := range d.frequencies {
		c.frequencies[t] = w
	}
	return c
}

// FilterFeatures returns a new document identical to doc in identity and
// metadata, whose mapping is restricted to the terms listed in features.
// The weights carried by features are ignored; only the term keys act as an
// allowlist, and a term repeated in the allowlist counts once. Length is
// recomputed as the sum of the retained weights. The source document is
// unmodified.
func FilterFeatures(doc Document, features []domain.Feature) Document {
	filtered := doc.Clone()
	filtered.frequencies = make(map[domain.TermID]float64, len(features))
	filtered.length = 0

	for _, f := range features {
		if _, seen := filtered.frequencies[f.Term]; seen {
			continue
		}
		w, ok := doc.frequencies[f.Term]
		if !ok {
			continue
		}
		filtered.frequencies[f.Term] = w
		filtered.length += w
	}
	return filtered
}

// FilterAll applies FilterFeatures independently to every document,
// preserving input order.
func FilterAll(docs []Document, features []domain.Feature) []Document {
	filtered := make([]Document, len(docs))
	for i := range docs {
		filtered[i] = FilterFeatures(docs[i], features)
	}
	return filtered
}

// JaccardSimilarity returns the set similarity of the two documents' term
// keys, ignoring weights: |intersection| / |union|. Two documents with
// empty mappings score 0, not NaN.
func JaccardSimilarity(a, b Document) float64 {
	intersection := 0
	small, large := a.frequencies, b.frequencies
	if len(small) > len(large) {
		small, large = large, small
	}
	for t := range small {
		if _, ok := large[t]; ok {
			intersection++
		}
	}

	union := len(a.frequencies) + len(b.frequencies) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// CosineSimilarity returns the cosine of the two weight vectors over the
// union of term keys, treating a missing key as weight 0. If either vector
// has zero norm the result is 0.
func CosineSimilarity(a, b Document) float64 {
	var dot, normA, normB float64
	for t, wa := range a.frequencies {
		normA += wa * wa
		if wb, ok := b.frequencies[t]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b.frequencies {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SLDATermData serializes the term-frequency mapping in the sparse count
// format consumed by the supervised LDA exporter: the number of distinct
// terms with nonzero weight, then space-separated term:weight tokens.
// Weights print with no trailing zeros (2.0 -> "2"). Pairs are ordered by
// term ID.
func (d *Document) SLDATermData() string {
	terms := make([]domain.TermID, 0, len(d.frequencies))
	for t, w := range d.frequencies {
		if w != 0 {
			terms = append(terms, t)
		}
	}
	// Sorted output keeps exports byte-reproducible across runs.
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(terms)))
	for _, t := range terms {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatUint(uint64(t), 10))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(d.frequencies[t], 'g', -1, 64))
	}
	return sb.String()
}

// SLDALabelData resolves this document's label to its stable integer via
// the shared mapping and returns it formatted as a string. First use of a
// label assigns it the next unused integer; mapping failures propagate
// unchanged.
func (d *Document) SLDALabelData(mapping LabelMapping) (string, error) {
	idx, err := mapping.GetOrAssign(d.label)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(idx), nil
}
