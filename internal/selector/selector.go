// Package selector picks board positions to light up.
package selector

import (
	"math/rand"

	"github.com/vovakirdan/poppy/internal/core"
)

// Selector draws positions uniformly from [0, size).
type Selector struct {
	size int
	rng  *rand.Rand
}

// New creates a selector for a board of the given size.
// The same seed always yields the same sequence of picks.
func New(size int, seed int64) *Selector {
	return &Selector{
		size: size,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Size returns the board size.
func (s *Selector) Size() int {
	return s.size
}

// Pick returns up to count distinct positions not in excluding.
// If fewer than count positions are eligible, all eligible positions are
// returned (in random order); an empty result means the board is full.
func (s *Selector) Pick(excluding core.Set, count int) []core.Position {
	if count <= 0 {
		return nil
	}

	// Candidates are collected in ascending order so a seed reproduces picks
	candidates := make([]core.Position, 0, s.size)
	for i := 0; i < s.size; i++ {
		p := core.Position(i)
		if !excluding.Has(p) {
			candidates = append(candidates, p)
		}
	}

	if count > len(candidates) {
		count = len(candidates)
	}

	// Partial Fisher-Yates: the first count slots end up uniformly chosen
	for i := 0; i < count; i++ {
		j := i + s.rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	return candidates[:count]
}

// Any returns one position from the whole board. Repeats are allowed.
func (s *Selector) Any() core.Position {
	if s.size <= 0 {
		return core.NoPosition
	}
	return core.Position(s.rng.Intn(s.size))
}
