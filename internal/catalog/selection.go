package catalog

import (
	"slices"
	"sync"
)

// MaxCompared is how many items can be compared side by side.
const MaxCompared = 3

// Selection is a bounded, duplicate free list of item ids picked for comparison.
// Insertion order is kept for display only.
type Selection struct {
	mu  sync.Mutex
	ids []string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make([]string, 0, MaxCompared)}
}

// Add appends id. It is a no-op when id is empty, already selected or the
// selection is full; the return value tells whether id was added.
func (s *Selection) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" || len(s.ids) >= MaxCompared || slices.Contains(s.ids, id) {
		return false
	}

	s.ids = append(s.ids, id)
	return true
}

// Remove drops id if present.
func (s *Selection) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.Index(s.ids, id)
	if idx < 0 {
		return false
	}

	s.ids = slices.Delete(s.ids, idx, idx+1)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = s.ids[:0]
}

// CanAddMore reports whether another id fits.
func (s *Selection) CanAddMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids) < MaxCompared
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.ids, id)
}

// IDs returns a copy of the selected ids in insertion order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.ids)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}
