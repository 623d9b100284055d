// Package labelmap provides the bidirectional label <-> integer mapping
// used by the structured exporter. Integers are assigned on first use,
// starting at 0, and never change for the lifetime of the map.
package labelmap

import (
	"sync"

	"github.com/loomstack/termdex/internal/domain"
)

// Map is an in-memory invertible label mapping. Safe for concurrent use:
// insert-if-absent is atomic under the internal mutex.
type Map struct {
	mu      sync.Mutex
	byLabel map[domain.ClassLabel]int
	byIndex map[int]domain.ClassLabel
}

// New creates an empty label mapping.
func New() *Map {
	return &Map{
		byLabel: make(map[domain.ClassLabel]int),
		byIndex: make(map[int]domain.ClassLabel),
	}
}

// GetOrAssign returns the integer for label, assigning the next unused
// integer on first use. Never fails for the in-memory map; the error return
// matches the collaborator contract shared with remote implementations.
func (m *Map) GetOrAssign(label domain.ClassLabel) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.byLabel[label]; ok {
		return idx, nil
	}
	idx := len(m.byLabel)
	m.byLabel[label] = idx
	m.byIndex[idx] = label
	return idx, nil
}

// Index returns the integer for label without assigning.
func (m *Map) Index(label domain.ClassLabel) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.byLabel[label]
	return idx, ok
}

// Label is the reverse lookup: the label assigned the given integer.
func (m *Map) Label(idx int) (domain.ClassLabel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	label, ok := m.byIndex[idx]
	return label, ok
}

// Len returns the number of labels assigned so far.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byLabel)
}
