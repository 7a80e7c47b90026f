// Package ds provides small generic data structures for the introspection
// engine.
package ds

import "fmt"

// Set is an ordered set with O(1) membership testing that preserves
// insertion order. Descriptor name enumeration relies on this to stay
// deterministic within a process run: names come back in the order they
// were first registered, regardless of later overwrites.
type Set[T comparable] struct {
	items map[T]struct{}
	order []T
}

// NewSet creates a set containing the given values, deduplicated, in order.
func NewSet[T comparable](values ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v. No-op if already present, so re-adding never reorders.
func (s *Set[T]) Add(v T) {
	if _, ok := s.items[v]; ok {
		return
	}
	s.items[v] = struct{}{}
	s.order = append(s.order, v)
}

// Contains reports membership.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.items[v]
	return ok
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return len(s.items) }

// Values returns the elements in insertion order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.order)
}
