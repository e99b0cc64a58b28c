package core

// ScoreReporter receives the final score of a round.
// It is called exactly once per round at the finished transition, never
// awaited by the engine. durationKey is the round length in seconds (0 for
// untimed modes). Implementations own persistence, comparison against the
// stored best and their own error handling.
type ScoreReporter interface {
	RegisterCandidateScore(score int, durationKey int)
}

// ScoreReporterFunc adapts a function to ScoreReporter.
type ScoreReporterFunc func(score int, durationKey int)

// RegisterCandidateScore calls f(score, durationKey).
func (f ScoreReporterFunc) RegisterCandidateScore(score int, durationKey int) {
	f(score, durationKey)
}

// Cue is an advisory event for haptic and sound collaborators.
type Cue int

const (
	CueCountdownTick Cue = iota
	CueRoundStart
	CueScored
	CueIllegalTap
	CueClear
	CueClearReady
	CueStepShown
	CueRoundComplete
	CueRoundEnd
)

// String returns a human-readable name for the cue.
func (c Cue) String() string {
	switch c {
	case CueCountdownTick:
		return "countdown_tick"
	case CueRoundStart:
		return "round_start"
	case CueScored:
		return "scored"
	case CueIllegalTap:
		return "illegal_tap"
	case CueClear:
		return "clear"
	case CueClearReady:
		return "clear_ready"
	case CueStepShown:
		return "step_shown"
	case CueRoundComplete:
		return "round_complete"
	case CueRoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// CueSink is notified of cues. Implementations must not block.
type CueSink interface {
	Cue(c Cue)
}

// CueFunc adapts a function to CueSink.
type CueFunc func(c Cue)

// Cue calls f(c).
func (f CueFunc) Cue(c Cue) {
	f(c)
}

// Cues fans a cue out to several sinks. Nil entries are skipped.
type Cues []CueSink

// Cue forwards c to every sink.
func (cs Cues) Cue(c Cue) {
	for _, s := range cs {
		if s != nil {
			s.Cue(c)
		}
	}
}
