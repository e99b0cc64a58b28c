// Package sequence records the growing pattern of a Copy run and checks the
// player's replay against it.
package sequence

import (
	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/selector"
)

// State is the recorder's phase.
type State int

const (
	StateEmpty State = iota
	StatePresenting
	StateAwaitingInput
	StateSuccess
	StateFailure
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePresenting:
		return "presenting"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// StepOutcome is the result of submitting one input.
type StepOutcome int

const (
	// StepIgnored means the recorder was not awaiting input.
	StepIgnored StepOutcome = iota
	StepCorrect
	StepMismatch
)

// String returns a human-readable name for the outcome.
func (o StepOutcome) String() string {
	switch o {
	case StepCorrect:
		return "correct"
	case StepMismatch:
		return "mismatch"
	default:
		return "ignored"
	}
}

// Recorder owns an append-only sequence and a cursor into it.
type Recorder struct {
	sel   *selector.Selector
	steps []core.Position
	state State
	index int
}

// NewRecorder creates an empty recorder drawing steps from sel.
func NewRecorder(sel *selector.Selector) *Recorder {
	return &Recorder{sel: sel}
}

// AppendRandomStep appends one random position. The same position may
// appear several times in a row.
func (r *Recorder) AppendRandomStep() core.Position {
	p := r.sel.Any()
	r.steps = append(r.steps, p)
	return p
}

// BeginPresentation rewinds to the first step and enters presenting(0).
// It refuses (returning false) on an empty sequence or after a failure.
func (r *Recorder) BeginPresentation() bool {
	if len(r.steps) == 0 || r.state == StateFailure {
		return false
	}
	r.state = StatePresenting
	r.index = 0
	return true
}

// Present returns the step at the cursor and advances it. When the last step
// has been shown the recorder moves to awaitingInput(0). ok is false when the
// recorder is not presenting.
func (r *Recorder) Present() (p core.Position, ok bool) {
	if r.state != StatePresenting || r.index >= len(r.steps) {
		return core.NoPosition, false
	}
	p = r.steps[r.index]
	r.index++
	if r.index == len(r.steps) {
		r.state = StateAwaitingInput
		r.index = 0
	}
	return p, true
}

// FinishPresentation skips whatever is left of the presentation.
func (r *Recorder) FinishPresentation() {
	if r.state != StatePresenting {
		return
	}
	r.state = StateAwaitingInput
	r.index = 0
}

// SubmitInput compares p against the step at the cursor. complete is true
// when the whole sequence has been replayed correctly; the recorder is then
// in success until the next presentation. A mismatch is terminal until
// BeginNewGame.
func (r *Recorder) SubmitInput(p core.Position) (outcome StepOutcome, complete bool) {
	if r.state != StateAwaitingInput {
		return StepIgnored, false
	}
	if r.steps[r.index] != p {
		r.state = StateFailure
		return StepMismatch, false
	}
	r.index++
	if r.index == len(r.steps) {
		r.state = StateSuccess
		return StepCorrect, true
	}
	return StepCorrect, false
}

// BeginNewGame empties the sequence and rewinds the cursor.
func (r *Recorder) BeginNewGame() {
	r.steps = nil
	r.state = StateEmpty
	r.index = 0
}

// State returns the current phase.
func (r *Recorder) State() State {
	return r.state
}

// Index returns the cursor within the current phase.
func (r *Recorder) Index() int {
	return r.index
}

// Len returns the sequence length.
func (r *Recorder) Len() int {
	return len(r.steps)
}

// Steps returns a copy of the sequence.
func (r *Recorder) Steps() []core.Position {
	out := make([]core.Position, len(r.steps))
	copy(out, r.steps)
	return out
}
