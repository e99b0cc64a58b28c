package core

import "time"

// Phase describes where a Copy run is within an active round.
type Phase int

const (
	PhaseNone Phase = iota
	PhasePresenting
	PhaseAwaitingInput
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "watch"
	case PhaseAwaitingInput:
		return "your turn"
	default:
		return ""
	}
}

// Snapshot is an immutable projection of an engine's observable state.
// The presentation layer only ever reads engines through snapshots.
type Snapshot struct {
	Mode      string
	State     RoundState
	BoardSize int

	// Countdown is the number of ticks left while counting down.
	Countdown int
	// Remaining is the time left in the round, or the configured duration
	// while idle. Zero for untimed modes.
	Remaining time.Duration
	Duration  time.Duration

	Score int
	Lives int

	Active     []Position
	Pressed    []Position
	ClearReady bool

	// Revealed is set when a fatal mistake raised the whole board.
	Revealed bool
	// Missed is the position of the fatal tap, or NoPosition.
	Missed Position
	Reason FinishReason

	// Copy modes only.
	Phase       Phase
	Lit         Position
	SequenceLen int
	Progress    int
}

// Timed reports whether the snapshot carries a round timer.
func (s Snapshot) Timed() bool {
	return s.Duration > 0
}

// IsActive reports whether p is lit in this snapshot.
func (s Snapshot) IsActive(p Position) bool {
	for _, a := range s.Active {
		if a == p {
			return true
		}
	}
	return false
}

// IsPressed reports whether p is popped in this snapshot.
func (s Snapshot) IsPressed(p Position) bool {
	for _, a := range s.Pressed {
		if a == p {
			return true
		}
	}
	return false
}
