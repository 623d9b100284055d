package tokenizer

import (
	"testing"

	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

func TestVocabulary_GetOrAssign(t *testing.T) {
	v := NewVocabulary()

	first := v.GetOrAssign("hello")
	second := v.GetOrAssign("world")
	again := v.GetOrAssign("hello")

	if first != 0 || second != 1 {
		t.Errorf("ids = %d, %d, want 0, 1", first, second)
	}
	if again != first {
		t.Errorf("repeated term = %d, want %d", again, first)
	}
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
}

func TestVocabulary_Term(t *testing.T) {
	v := NewVocabulary()
	id := v.GetOrAssign("hello")

	term, ok := v.Term(id)
	if !ok || term != "hello" {
		t.Errorf("Term(%d) = %q, %v", id, term, ok)
	}
	if _, ok := v.Term(99); ok {
		t.Error("Term(99) should not exist")
	}
}

func TestTokenize_CountsOccurrences(t *testing.T) {
	v := NewVocabulary()
	tok := NewWordTokenizer(v)

	doc := document.New("doc.txt", 1, "")
	doc.SetContent("the cat and the dog")

	n := tok.Tokenize(&doc)
	if n != 5 {
		t.Errorf("Tokenize returned %d, want 5", n)
	}
	if doc.Length() != 5 {
		t.Errorf("Length() = %v, want 5", doc.Length())
	}

	the := v.GetOrAssign("the")
	if got := doc.Frequency(the); got != 2 {
		t.Errorf("Frequency(the) = %v, want 2", got)
	}
	if len(doc.Frequencies()) != 4 {
		t.Errorf("distinct terms = %d, want 4", len(doc.Frequencies()))
	}
}

func TestTokenize_LowercasesAndSplitsPunctuation(t *testing.T) {
	v := NewVocabulary()
	tok := NewWordTokenizer(v)

	doc := document.New("doc.txt", 1, "")
	doc.SetContent("Hello, hello! HELLO?")

	tok.Tokenize(&doc)

	hello := v.GetOrAssign("hello")
	if got := doc.Frequency(hello); got != 3 {
		t.Errorf("Frequency(hello) = %v, want 3", got)
	}
	if v.Len() != 1 {
		t.Errorf("vocabulary Len() = %d, want 1", v.Len())
	}
}

func TestTokenize_MinLength(t *testing.T) {
	v := NewVocabulary()
	tok := NewWordTokenizer(v).WithMinLength(3)

	doc := document.New("doc.txt", 1, "")
	doc.SetContent("a to the market")

	n := tok.Tokenize(&doc)
	if n != 2 {
		t.Errorf("Tokenize returned %d, want 2 (the, market)", n)
	}
}

func TestTokenize_EmptyContent(t *testing.T) {
	v := NewVocabulary()
	tok := NewWordTokenizer(v)

	doc := document.New("doc.txt", 1, "")
	if n := tok.Tokenize(&doc); n != 0 {
		t.Errorf("Tokenize returned %d, want 0", n)
	}
}

func TestTokenize_SharedVocabularyAcrossDocuments(t *testing.T) {
	v := NewVocabulary()
	tok := NewWordTokenizer(v)

	a := document.New("a.txt", 1, "")
	a.SetContent("shared term")
	b := document.New("b.txt", 2, "")
	b.SetContent("shared again")

	tok.Tokenize(&a)
	tok.Tokenize(&b)

	shared := v.GetOrAssign("shared")
	if a.Frequency(shared) != 1 || b.Frequency(shared) != 1 {
		t.Error("documents should agree on the TermID for a shared term")
	}
	if _, ok := v.Term(domain.TermID(v.Len())); ok {
		t.Error("Term past the end should miss")
	}
}
