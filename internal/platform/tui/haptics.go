package tui

import (
	"github.com/vovakirdan/poppy/internal/core"
)

const hapticBuffer = 8

// Haptics is the terminal stand-in for a vibration motor: it forwards
// cues to the play model, which flashes the board border.
// Cue never blocks; cues are dropped while the buffer is full.
type Haptics struct {
	ch chan core.Cue
}

// NewHaptics creates a haptic sink.
func NewHaptics() *Haptics {
	return &Haptics{ch: make(chan core.Cue, hapticBuffer)}
}

// Cue implements core.CueSink.
func (h *Haptics) Cue(c core.Cue) {
	if !felt(c) {
		return
	}
	select {
	case h.ch <- c:
	default:
	}
}

// C returns the channel cues are delivered on.
func (h *Haptics) C() <-chan core.Cue {
	return h.ch
}

// felt reports whether c produces a buzz.
func felt(c core.Cue) bool {
	switch c {
	case core.CueScored, core.CueIllegalTap, core.CueClear, core.CueCountdownTick, core.CueRoundEnd:
		return true
	}
	return false
}

var _ core.CueSink = (*Haptics)(nil)
