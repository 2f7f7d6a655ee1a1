// Package sets holds the ordered-key sets used for page paths and inherited
// member names.
package sets

import (
	"cmp"
	"maps"
	"slices"
)

// Set is a hash set whose members can be listed in order.
type Set[T cmp.Ordered] map[T]struct{}

// New creates a set holding vals.
func New[T cmp.Ordered](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(v T) { s[v] = struct{}{} }

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Delete(v T) { delete(s, v) }

// Sorted returns the members in ascending order.
func (s Set[T]) Sorted() []T {
	return slices.Sorted(maps.Keys(s))
}

// Missing returns the members of s that other lacks, in ascending order.
func (s Set[T]) Missing(other Set[T]) []T {
	var out []T
	for v := range s {
		if !other.Has(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
