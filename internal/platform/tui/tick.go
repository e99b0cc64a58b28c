// Package tui provides the Bubble Tea front end for Poppy.
// It maps keys to engine commands and renders engine snapshots.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/poppy/internal/core"
)

// flashDuration is how long the board border stays lit after a cue.
const flashDuration = 120 * time.Millisecond

// SnapshotMsg carries a snapshot published by the running engine.
type SnapshotMsg core.Snapshot

// CueMsg carries a cue forwarded by Haptics.
type CueMsg core.Cue

// flashDoneMsg ends the flash started by the cue with the same sequence.
type flashDoneMsg int

// streamClosedMsg is sent once the engine subscription is closed.
type streamClosedMsg struct{}

// listenCmd waits for the next snapshot. The model re-issues it after every
// SnapshotMsg so exactly one read is pending at a time.
func listenCmd(ch <-chan core.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return SnapshotMsg(s)
	}
}

// listenCuesCmd waits for the next haptic cue.
func listenCuesCmd(ch <-chan core.Cue) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return CueMsg(c)
	}
}

func flashCmd(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg(seq)
	})
}
