package analyze

import "github.com/loomstack/termdex/internal/domain/document"

// Corpus yields documents one at a time until exhausted.
type Corpus interface {
	HasNext() bool
	Next() (document.Document, error)
}

// Tokenizer resolves document content into term occurrences.
type Tokenizer interface {
	Tokenize(doc *document.Document) int
}

// DocumentWriter stores analyzed documents.
type DocumentWriter interface {
	Put(doc document.Document)
}
