// Package core provides the shared vocabulary of the Poppy engines: board
// positions, round states, tap outcomes, cues and snapshots.
// It has no external dependencies so engine logic stays pure and testable.
package core

import "sort"

// Position is an index into a mode's fixed set of tappable slots.
type Position int

// NoPosition marks the absence of a position (e.g. nothing lit).
const NoPosition Position = -1

// Set is an unordered collection of board positions.
type Set map[Position]struct{}

// NewSet creates a set holding the given positions.
func NewSet(ps ...Position) Set {
	s := make(Set, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p is in the set.
func (s Set) Has(p Position) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p.
func (s Set) Add(p Position) {
	s[p] = struct{}{}
}

// Remove deletes p. Removing a missing position is a no-op.
func (s Set) Remove(p Position) {
	delete(s, p)
}

// Len returns the number of positions in the set.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// Union returns a new set with the positions of both sets.
func (s Set) Union(other Set) Set {
	u := s.Clone()
	for p := range other {
		u[p] = struct{}{}
	}
	return u
}

// Intersects reports whether the two sets share a position.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for p := range small {
		if large.Has(p) {
			return true
		}
	}
	return false
}

// Sorted returns the positions in ascending order.
func (s Set) Sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
