package filecorpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/loomstack/termdex/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNew_LabeledEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha body")
	writeFile(t, dir, "b.txt", "beta body")
	index := writeFile(t, dir, "corpus.idx", "spam a.txt\nham b.txt\n")

	c, err := New(index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	doc, err := c.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Label() != "spam" {
		t.Errorf("Label() = %q, want spam", doc.Label())
	}
	if doc.Name() != "a.txt" {
		t.Errorf("Name() = %q, want a.txt", doc.Name())
	}
	if doc.Content() != "alpha body" {
		t.Errorf("Content() = %q", doc.Content())
	}
}

func TestNew_BarePathIsUnlabeled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "body")
	index := writeFile(t, dir, "corpus.idx", "a.txt\n")

	c, _ := New(index)
	doc, err := c.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Label() != domain.NoLabel {
		t.Errorf("Label() = %q, want %q", doc.Label(), domain.NoLabel)
	}
}

func TestNew_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "body")
	index := writeFile(t, dir, "corpus.idx", "\nspam a.txt\n\n\n")

	c, err := New(index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestNext_MissingDocumentFile(t *testing.T) {
	dir := t.TempDir()
	index := writeFile(t, dir, "corpus.idx", "spam gone.txt\n")

	c, _ := New(index)
	if _, err := c.Next(); err == nil {
		t.Fatal("expected error for missing document file")
	}
	// The failed entry is consumed; iteration can continue past it.
	if c.HasNext() {
		t.Error("HasNext() = true after consuming the only entry")
	}
}

func TestNext_Exhausted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "body")
	index := writeFile(t, dir, "corpus.idx", "spam a.txt\n")

	c, _ := New(index)
	if _, err := c.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Next(); !errors.Is(err, domain.ErrCorpusExhausted) {
		t.Errorf("err = %v, want ErrCorpusExhausted", err)
	}
}
