package results

import (
	"fmt"
	"sync"
)

// Selection is an index into the canonical result set picked by the user.
type Selection int

// NoSelection marks an empty choice.
const NoSelection Selection = -1

func (s Selection) IsSet() bool { return s >= 0 }

// Store owns the canonical result set of the last successful match request.
type Store struct {
	mu    sync.RWMutex
	items []CandidateMatch
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the canonical set wholesale. Scores are clamped on the way in.
func (s *Store) Set(items []CandidateMatch) {
	next := cloneAll(items)
	for i := range next {
		next[i].Clamp()
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

// Results returns a copy of the canonical set.
func (s *Store) Results() []CandidateMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// At returns a copy of the record at sel.
func (s *Store) At(sel Selection) (*CandidateMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !sel.IsSet() {
		return nil, ErrInvalidSelection
	}
	if int(sel) >= len(s.items) {
		return nil, fmt.Errorf("%w: index %d out of range (have %d)", ErrInvalidSelection, sel, len(s.items))
	}

	item := s.items[sel].Clone()
	return &item, nil
}

// Compare resolves two selections and compares the records they point at.
func (s *Store) Compare(a, b Selection) (*Comparison, error) {
	if !a.IsSet() || !b.IsSet() || a == b {
		return nil, ErrInvalidSelection
	}

	left, err := s.At(a)
	if err != nil {
		return nil, err
	}
	right, err := s.At(b)
	if err != nil {
		return nil, err
	}

	return CompareTwo(left, right)
}
