// Package board tracks which slots of a mode's board are lit and which have
// already been popped, and decides what a tap on a slot means.
package board

import "github.com/vovakirdan/poppy/internal/core"

// Tracker owns the active and pressed sets of one board.
// The two sets are always disjoint.
type Tracker struct {
	size    int
	active  core.Set
	pressed core.Set
}

// NewTracker creates an empty tracker for a board of the given size.
func NewTracker(size int) *Tracker {
	return &Tracker{
		size:    size,
		active:  core.NewSet(),
		pressed: core.NewSet(),
	}
}

// Size returns the number of slots on the board.
func (t *Tracker) Size() int {
	return t.size
}

// InRange reports whether p is a slot on this board.
func (t *Tracker) InRange(p core.Position) bool {
	return p >= 0 && int(p) < t.size
}

// EvaluateTap resolves a tap on p:
//   - TapScored if p is lit; p moves from active to pressed.
//   - TapNoOp if p was already popped, or is off the board.
//   - TapIllegal otherwise (a raised slot that is not lit).
func (t *Tracker) EvaluateTap(p core.Position) core.TapOutcome {
	if !t.InRange(p) {
		return core.TapNoOp
	}
	if t.active.Has(p) {
		t.active.Remove(p)
		t.pressed.Add(p)
		return core.TapScored
	}
	if t.pressed.Has(p) {
		return core.TapNoOp
	}
	return core.TapIllegal
}

// Activate lights the given positions. Positions that are off the board or
// already pressed are skipped, keeping the sets disjoint.
func (t *Tracker) Activate(ps ...core.Position) {
	for _, p := range ps {
		if !t.InRange(p) || t.pressed.Has(p) {
			continue
		}
		t.active.Add(p)
	}
}

// Occupied returns the union of active and pressed positions, which is what
// a selector must exclude when lighting new targets.
func (t *Tracker) Occupied() core.Set {
	return t.active.Union(t.pressed)
}

// BoardFull reports whether every slot has been popped.
func (t *Tracker) BoardFull() bool {
	return t.size > 0 && t.pressed.Len() >= t.size
}

// ActiveCount returns the number of lit slots.
func (t *Tracker) ActiveCount() int {
	return t.active.Len()
}

// PressedCount returns the number of popped slots.
func (t *Tracker) PressedCount() int {
	return t.pressed.Len()
}

// Active returns the lit slots in ascending order.
func (t *Tracker) Active() []core.Position {
	return t.active.Sorted()
}

// Pressed returns the popped slots in ascending order.
func (t *Tracker) Pressed() []core.Position {
	return t.pressed.Sorted()
}

// ClearPressed raises every popped slot, leaving lit slots alone.
func (t *Tracker) ClearPressed() {
	t.pressed = core.NewSet()
}

// Reset raises the whole board: nothing lit, nothing popped.
func (t *Tracker) Reset() {
	t.active = core.NewSet()
	t.pressed = core.NewSet()
}
