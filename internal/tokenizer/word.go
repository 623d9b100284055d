// Package tokenizer turns raw document content into resolved term
// occurrences. It sits upstream of the document core: the vocabulary owns
// term string -> TermID assignment, documents only ever see the IDs.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/loomstack/termdex/internal/domain/document"
)

// WordTokenizer splits content on non-letter, non-digit runs, lowercases
// each word, and records one occurrence per word via Document.Increment.
type WordTokenizer struct {
	vocab     *Vocabulary
	minLength int
}

// NewWordTokenizer creates a tokenizer over the shared vocabulary.
func NewWordTokenizer(vocab *Vocabulary) *WordTokenizer {
	return &WordTokenizer{vocab: vocab, minLength: 1}
}

// WithMinLength drops words shorter than n runes.
func (t *WordTokenizer) WithMinLength(n int) *WordTokenizer {
	if n > 0 {
		t.minLength = n
	}
	return t
}

// Tokenize feeds the document's content through the vocabulary into its
// frequency mapping. Returns the number of token occurrences recorded.
func (t *WordTokenizer) Tokenize(doc *document.Document) int {
	words := strings.FieldsFunc(doc.Content(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	count := 0
	for _, w := range words {
		if len([]rune(w)) < t.minLength {
			continue
		}
		term := t.vocab.GetOrAssign(strings.ToLower(w))
		doc.Increment(term, 1)
		count++
	}
	return count
}
