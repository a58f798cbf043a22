package tracker

import "github.com/zyedidia/generic/mapset"

// OrderedSet is a set that remembers insertion order. Membership answers
// identity questions; Items gives a stable presentation order.
type OrderedSet[T comparable] struct {
	members mapset.Set[T]
	order   []T
}

// NewOrderedSet returns an empty set.
func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{members: mapset.New[T]()}
}

// Add inserts v and reports whether it was not already present.
func (s *OrderedSet[T]) Add(v T) bool {
	if s.members.Has(v) {
		return false
	}
	s.members.Put(v)
	s.order = append(s.order, v)
	return true
}

func (s *OrderedSet[T]) Has(v T) bool {
	return s.members.Has(v)
}

func (s *OrderedSet[T]) Len() int {
	return s.members.Size()
}

// Items returns the members in insertion order.
func (s *OrderedSet[T]) Items() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

// Union adds every member of o, keeping o's order for new members.
func (s *OrderedSet[T]) Union(o *OrderedSet[T]) {
	if o == nil {
		return
	}
	for _, v := range o.order {
		s.Add(v)
	}
}

// CountIn returns how many members of s are also in o.
func (s *OrderedSet[T]) CountIn(o *OrderedSet[T]) int {
	n := 0
	for _, v := range s.order {
		if o.Has(v) {
			n++
		}
	}
	return n
}
