// Package termdex embeds the text-analysis engine in a Go program: load a
// corpus, then query term statistics, document similarity, and sLDA export
// without running the HTTP server.
package termdex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loomstack/termdex/internal/corpus"
	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
	"github.com/loomstack/termdex/internal/domain/labelmap"
	"github.com/loomstack/termdex/internal/repository/docstore"
	"github.com/loomstack/termdex/internal/tokenizer"
	exportuc "github.com/loomstack/termdex/internal/usecase/export"
	similarityuc "github.com/loomstack/termdex/internal/usecase/similarity"
)

// Corpus kinds accepted by LoadCorpus.
const (
	CorpusLine = string(corpus.KindLine)
	CorpusFile = string(corpus.KindFile)
)

// DocumentInfo is a summary of one loaded document.
type DocumentInfo struct {
	ID            uint64
	Path          string
	Name          string
	Label         string
	Length        float64
	DistinctTerms int
}

// Neighbor is one ranked entry from a nearest-neighbor query.
type Neighbor struct {
	ID    uint64
	Name  string
	Label string
	Score float64
}

// Client is the termdex embedded entry point.
type Client struct {
	docs    *docstore.Store
	vocab   *tokenizer.Vocabulary
	sim     *similarityuc.Service
	export  *exportuc.Service
	tok     *tokenizer.WordTokenizer
	mapping document.LabelMapping
}

// Option configures a Client.
type Option func(*Client)

// WithMinWordLength drops tokens shorter than n runes during loading.
func WithMinWordLength(n int) Option {
	return func(c *Client) { c.tok.WithMinLength(n) }
}

// WithTopK sets the default and maximum neighbor counts.
func WithTopK(defaultTopK, maxTopK int) Option {
	return func(c *Client) { c.sim.WithTopK(defaultTopK, maxTopK) }
}

// WithLabelMapping replaces the default in-process label table, for callers
// that share label integers across processes.
func WithLabelMapping(m document.LabelMapping) Option {
	return func(c *Client) {
		c.mapping = m
		c.export = exportuc.New(c.docs, m)
	}
}

// New creates an empty client. Call LoadCorpus before querying.
func New(opts ...Option) *Client {
	docs := docstore.New()
	vocab := tokenizer.NewVocabulary()
	mapping := labelmap.New()

	c := &Client{
		docs:    docs,
		vocab:   vocab,
		sim:     similarityuc.New(docs),
		export:  exportuc.New(docs, mapping),
		tok:     tokenizer.NewWordTokenizer(vocab),
		mapping: mapping,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCorpus reads, tokenizes, and stores every document of the corpus.
// Returns the number of documents loaded. May be called more than once;
// later corpora share the same vocabulary.
func (c *Client) LoadCorpus(ctx context.Context, kind, path, labelsPath string) (int, error) {
	src, err := corpus.Open(corpus.Kind(kind), path, labelsPath)
	if err != nil {
		return 0, fmt.Errorf("open corpus: %w", err)
	}

	loaded := 0
	for src.HasNext() {
		if err := ctx.Err(); err != nil {
			return loaded, fmt.Errorf("corpus load canceled: %w", err)
		}
		doc, err := src.Next()
		if err != nil {
			return loaded, fmt.Errorf("read corpus document: %w", err)
		}
		c.tok.Tokenize(&doc)
		c.docs.Put(doc)
		loaded++
	}
	return loaded, nil
}

// Count returns the number of loaded documents.
func (c *Client) Count() int { return c.docs.Count() }

// VocabularySize returns the number of distinct terms seen so far.
func (c *Client) VocabularySize() int { return c.vocab.Len() }

// Document returns a summary of the document with the given ID.
func (c *Client) Document(id uint64) (DocumentInfo, error) {
	doc, err := c.docs.Get(domain.DocID(id))
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("get document %d: %w", id, err)
	}
	return DocumentInfo{
		ID:            uint64(doc.ID()),
		Path:          doc.Path(),
		Name:          doc.Name(),
		Label:         string(doc.Label()),
		Length:        doc.Length(),
		DistinctTerms: len(doc.Frequencies()),
	}, nil
}

// TermData returns the document's sLDA term line.
func (c *Client) TermData(id uint64) (string, error) {
	doc, err := c.docs.Get(domain.DocID(id))
	if err != nil {
		return "", fmt.Errorf("get document %d: %w", id, err)
	}
	return doc.SLDATermData(), nil
}

// Similarity scores two loaded documents under the named metric
// ("jaccard" or "cosine").
func (c *Client) Similarity(a, b uint64, metric string) (float64, error) {
	m, err := domain.ParseMetric(metric)
	if err != nil {
		return 0, fmt.Errorf("parse metric: %w", err)
	}
	return c.sim.Compare(domain.DocID(a), domain.DocID(b), m)
}

// Neighbors returns the topK most similar documents to the given one.
// topK <= 0 uses the configured default.
func (c *Client) Neighbors(id uint64, metric string, topK int) ([]Neighbor, error) {
	m, err := domain.ParseMetric(metric)
	if err != nil {
		return nil, fmt.Errorf("parse metric: %w", err)
	}

	ranked, err := c.sim.Neighbors(domain.DocID(id), m, topK)
	if err != nil {
		return nil, err
	}

	out := make([]Neighbor, len(ranked))
	for i, n := range ranked {
		out[i] = Neighbor{
			ID:    uint64(n.ID),
			Name:  n.Name,
			Label: string(n.Label),
			Score: n.Score,
		}
	}
	return out, nil
}

// ExportSLDA writes term and label data files for every loaded document
// into dir, creating it if needed. Returns the number of documents written.
func (c *Client) ExportSLDA(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}

	terms, err := os.Create(filepath.Join(dir, exportuc.TermFile))
	if err != nil {
		return 0, fmt.Errorf("create term file: %w", err)
	}
	defer func() { _ = terms.Close() }()

	labels, err := os.Create(filepath.Join(dir, exportuc.LabelFile))
	if err != nil {
		return 0, fmt.Errorf("create label file: %w", err)
	}
	defer func() { _ = labels.Close() }()

	n, err := c.export.Run(terms, labels)
	if err != nil {
		return n, fmt.Errorf("export: %w", err)
	}
	return n, nil
}
