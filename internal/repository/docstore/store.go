// Package docstore holds the loaded corpus in memory for the serving
// surface. Documents go in and come out as independent value copies, so
// the single-owner discipline of the document core survives concurrent
// HTTP handlers.
package docstore

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// Store is an ordered, in-memory document store.
type Store struct {
	mu   sync.RWMutex
	byID map[domain.DocID]int
	docs []document.Document
}

// New creates an empty store.
func New() *Store {
	return &Store{byID: make(map[domain.DocID]int)}
}

// Put inserts or replaces a document, keyed by its ID. Insertion order is
// preserved for listing.
func (s *Store) Put(doc document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := doc.Clone()
	if i, ok := s.byID[doc.ID()]; ok {
		s.docs[i] = clone
		return
	}
	s.byID[doc.ID()] = len(s.docs)
	s.docs = append(s.docs, clone)
}

// Get returns an independent copy of the document with the given ID.
func (s *Store) Get(id domain.DocID) (document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return document.Document{}, domain.ErrDocumentNotFound
	}
	return s.docs[i].Clone(), nil
}

// List returns documents in insertion order with offset-cursor pagination.
// An empty next cursor means the listing is complete.
func (s *Store) List(cursor string, limit int) ([]document.Document, string, error) {
	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("cursor %q: %w", cursor, domain.ErrInvalidCursor)
		}
		offset = parsed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.docs) {
		return nil, "", nil
	}

	end := offset + limit
	if limit <= 0 || end > len(s.docs) {
		end = len(s.docs)
	}

	page := make([]document.Document, 0, end-offset)
	for i := offset; i < end; i++ {
		page = append(page, s.docs[i].Clone())
	}

	var next string
	if end < len(s.docs) {
		next = strconv.Itoa(end)
	}
	return page, next, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// All returns independent copies of every document in insertion order.
func (s *Store) All() []document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]document.Document, len(s.docs))
	for i := range s.docs {
		out[i] = s.docs[i].Clone()
	}
	return out
}
