package tokenizer

import (
	"sync"

	"github.com/loomstack/termdex/internal/domain"
)

// Vocabulary assigns TermIDs to term strings, inserting on first use.
// IDs are dense, starting at 0. Safe for concurrent use.
type Vocabulary struct {
	mu     sync.Mutex
	byTerm map[string]domain.TermID
	byID   []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{byTerm: make(map[string]domain.TermID)}
}

// GetOrAssign returns the TermID for term, assigning the next unused ID on
// first use.
func (v *Vocabulary) GetOrAssign(term string) domain.TermID {
	v.mu.Lock()
	defer v.mu.Unlock()

	if id, ok := v.byTerm[term]; ok {
		return id
	}
	id := domain.TermID(len(v.byID))
	v.byTerm[term] = id
	v.byID = append(v.byID, term)
	return id
}

// Term is the reverse lookup: the term string assigned the given ID.
func (v *Vocabulary) Term(id domain.TermID) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if int(id) >= len(v.byID) {
		return "", false
	}
	return v.byID[id], true
}

// Len returns the number of distinct terms assigned so far.
func (v *Vocabulary) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.byID)
}
