package core

// RoundState is the single authoritative lifecycle field of an engine.
type RoundState int

const (
	StateIdle RoundState = iota
	StateCountingDown
	StateActive
	StateFinished
)

// String returns a human-readable name for the state.
func (s RoundState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountingDown:
		return "counting_down"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// TapOutcome is the result of tapping a board position.
type TapOutcome int

const (
	// TapNoOp means nothing changed: the slot was already popped, or the
	// engine was not accepting taps.
	TapNoOp TapOutcome = iota
	// TapScored means an active slot was popped.
	TapScored
	// TapIllegal means a raised slot that was not lit was tapped.
	TapIllegal
)

// String returns a human-readable name for the outcome.
func (o TapOutcome) String() string {
	switch o {
	case TapNoOp:
		return "noop"
	case TapScored:
		return "scored"
	case TapIllegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// FinishReason records why a round reached StateFinished.
type FinishReason int

const (
	FinishNone FinishReason = iota
	FinishTimeout
	FinishMistake
	FinishMismatch
)

// String returns a human-readable name for the reason.
func (r FinishReason) String() string {
	switch r {
	case FinishNone:
		return ""
	case FinishTimeout:
		return "time up"
	case FinishMistake:
		return "wrong pop"
	case FinishMismatch:
		return "wrong order"
	default:
		return "unknown"
	}
}
