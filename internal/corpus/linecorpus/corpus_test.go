package linecorpus

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

func TestNew_Unlabeled(t *testing.T) {
	dir := t.TempDir()
	docs := writeFile(t, dir, "docs.txt", "first doc\nsecond doc\n")

	c, err := New(docs, "")
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
	if doc.ID() != 0 {
		t.Errorf("ID() = %d, want 0", doc.ID())
	}
	if doc.Label() != domain.NoLabel {
		t.Errorf("Label() = %q, want %q", doc.Label(), domain.NoLabel)
	}
	if !doc.ContainsContent() || doc.Content() != "first doc" {
		t.Errorf("Content() = %q", doc.Content())
	}
}

func TestNew_Labeled(t *testing.T) {
	dir := t.TempDir()
	docs := writeFile(t, dir, "docs.txt", "one\ntwo\n")
	labels := writeFile(t, dir, "docs.labels", "spam\nham\n")

	c, err := New(docs, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := c.Next()
	second, _ := c.Next()
	if first.Label() != "spam" || second.Label() != "ham" {
		t.Errorf("labels = %q, %q", first.Label(), second.Label())
	}
}

func TestNew_LabelCountMismatch(t *testing.T) {
	dir := t.TempDir()
	docs := writeFile(t, dir, "docs.txt", "one\ntwo\n")
	labels := writeFile(t, dir, "docs.labels", "spam\n")

	if _, err := New(docs, labels); err == nil {
		t.Fatal("expected error for mismatched label count")
	}
}

func TestNew_MissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.txt"), ""); err == nil {
		t.Fatal("expected error for missing documents file")
	}
}

func TestNext_Exhausted(t *testing.T) {
	dir := t.TempDir()
	docs := writeFile(t, dir, "docs.txt", "only\n")

	c, _ := New(docs, "")
	if _, err := c.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HasNext() {
		t.Error("HasNext() = true after last document")
	}
	if _, err := c.Next(); !errors.Is(err, domain.ErrCorpusExhausted) {
		t.Errorf("err = %v, want ErrCorpusExhausted", err)
	}
}

func TestNext_SequentialIDs(t *testing.T) {
	dir := t.TempDir()
	docs := writeFile(t, dir, "docs.txt", "a\nb\nc\n")

	c, _ := New(docs, "")
	for want := domain.DocID(0); c.HasNext(); want++ {
		doc, err := c.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.ID() != want {
			t.Errorf("ID() = %d, want %d", doc.ID(), want)
		}
	}
}
