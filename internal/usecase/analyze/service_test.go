package analyze

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/loomstack/termdex/internal/domain/document"
)

type sliceCorpus struct {
	docs []document.Document
	cur  int
	err  error
}

func (c *sliceCorpus) HasNext() bool { return c.cur < len(c.docs) }

func (c *sliceCorpus) Next() (document.Document, error) {
	if c.err != nil {
		return document.Document{}, c.err
	}
	doc := c.docs[c.cur]
	c.cur++
	return doc, nil
}

type mockTokenizer struct {
	tokenizeFn func(doc *document.Document) int
}

func (m *mockTokenizer) Tokenize(doc *document.Document) int { return m.tokenizeFn(doc) }

type captureWriter struct {
	put []document.Document
}

func (w *captureWriter) Put(doc document.Document) { w.put = append(w.put, doc) }

func TestLoad_DrainsCorpus(t *testing.T) {
	corpus := &sliceCorpus{docs: []document.Document{
		document.New("a.txt", 0, ""),
		document.New("b.txt", 1, "spam"),
	}}
	tok := &mockTokenizer{tokenizeFn: func(doc *document.Document) int {
		doc.Increment(1, 1)
		return 3
	}}
	store := &captureWriter{}

	svc := New(tok, store, zap.NewNop(), "line")
	stats, err := svc.Load(context.Background(), corpus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Documents != 2 || stats.Tokens != 6 {
		t.Errorf("stats = %+v, want 2 documents, 6 tokens", stats)
	}
	if len(store.put) != 2 {
		t.Fatalf("stored %d documents, want 2", len(store.put))
	}
	if store.put[0].Frequency(1) != 1 {
		t.Error("stored document should carry tokenized frequencies")
	}
}

func TestLoad_CorpusError(t *testing.T) {
	wantErr := errors.New("disk gone")
	corpus := &sliceCorpus{docs: []document.Document{document.New("a.txt", 0, "")}, err: wantErr}
	tok := &mockTokenizer{tokenizeFn: func(*document.Document) int { return 0 }}

	svc := New(tok, &captureWriter{}, zap.NewNop(), "file")
	if _, err := svc.Load(context.Background(), corpus); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped corpus error", err)
	}
}

func TestLoad_ContextCanceled(t *testing.T) {
	corpus := &sliceCorpus{docs: []document.Document{document.New("a.txt", 0, "")}}
	tok := &mockTokenizer{tokenizeFn: func(*document.Document) int { return 0 }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(tok, &captureWriter{}, zap.NewNop(), "line")
	if _, err := svc.Load(ctx, corpus); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
