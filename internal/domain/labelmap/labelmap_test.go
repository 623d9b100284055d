package labelmap

import (
	"sync"
	"testing"

	"github.com/loomstack/termdex/internal/domain"
)

func TestGetOrAssign_Sequential(t *testing.T) {
	m := New()

	first, err := m.GetOrAssign("chinese")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 0 {
		t.Errorf("first label = %d, want 0", first)
	}

	second, _ := m.GetOrAssign("japanese")
	if second != 1 {
		t.Errorf("second label = %d, want 1", second)
	}

	again, _ := m.GetOrAssign("chinese")
	if again != first {
		t.Errorf("repeated label = %d, want %d", again, first)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestLabel_ReverseLookup(t *testing.T) {
	m := New()
	idx, _ := m.GetOrAssign("spam")

	label, ok := m.Label(idx)
	if !ok || label != "spam" {
		t.Errorf("Label(%d) = %q, %v", idx, label, ok)
	}

	if _, ok := m.Label(99); ok {
		t.Error("Label(99) should not exist")
	}
}

func TestIndex_NoAssign(t *testing.T) {
	m := New()
	if _, ok := m.Index("unseen"); ok {
		t.Error("Index must not assign")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestGetOrAssign_Concurrent(t *testing.T) {
	m := New()
	labels := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, l := range labels {
				if _, err := m.GetOrAssign(domain.ClassLabel(l)); err != nil {
					t.Errorf("GetOrAssign(%q): %v", l, err)
				}
			}
		}()
	}
	wg.Wait()

	if m.Len() != len(labels) {
		t.Errorf("Len() = %d, want %d", m.Len(), len(labels))
	}
	// Every assigned integer must invert back to its label
	for _, l := range labels {
		idx, ok := m.Index(domain.ClassLabel(l))
		if !ok {
			t.Fatalf("label %q not assigned", l)
		}
		back, ok := m.Label(idx)
		if !ok || back != domain.ClassLabel(l) {
			t.Errorf("Label(Index(%q)) = %q", l, back)
		}
	}
}
