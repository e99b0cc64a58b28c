package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/poppy/internal/core"
)

// Palette.
var (
	colorAccent = lipgloss.Color("229")
	colorMuted  = lipgloss.Color("241")
	colorBorder = lipgloss.Color("240")
	colorLit    = lipgloss.Color("11")
	colorPopped = lipgloss.Color("238")
	colorMiss   = lipgloss.Color("9")
	colorGood   = lipgloss.Color("10")
	colorFlash  = lipgloss.Color("13")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	hudStyle   = lipgloss.NewStyle().Bold(true)
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorMiss)
	goodStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGood)

	slotBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(3).
			Align(lipgloss.Center)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// PlayView is everything the play screen shows besides the help bar.
type PlayView struct {
	Title    string
	Snapshot core.Snapshot
	Best     int
	NewHigh  bool
	MaxLives int
	// Flash is set while a haptic cue is being shown.
	Flash *core.Cue
}

// RenderPlay draws the play screen.
func RenderPlay(v PlayView) string {
	s := v.Snapshot
	var b strings.Builder

	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(renderHUD(v))
	b.WriteString("\n\n")

	board := boardStyle
	if v.Flash != nil {
		color := colorFlash
		if *v.Flash == core.CueIllegalTap {
			color = colorMiss
		}
		board = board.BorderForeground(color)
	}
	b.WriteString(board.Render(renderSlots(s)))
	b.WriteString("\n\n")
	b.WriteString(renderStatus(v))
	return b.String()
}

func renderHUD(v PlayView) string {
	s := v.Snapshot
	parts := []string{hudStyle.Render(fmt.Sprintf("Score %d", s.Score))}

	if s.Timed() {
		parts = append(parts, hudStyle.Render("Time "+formatRemaining(s.Remaining)))
	}
	if v.MaxLives > 0 {
		lost := max(v.MaxLives-s.Lives, 0)
		parts = append(parts, badStyle.Render(strings.Repeat("♥", s.Lives))+mutedStyle.Render(strings.Repeat("♡", lost)))
	}
	if s.SequenceLen > 0 {
		parts = append(parts, hudStyle.Render(fmt.Sprintf("Step %d/%d", s.Progress, s.SequenceLen)))
	}
	if v.Best > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("Best %d", v.Best)))
	}
	return strings.Join(parts, mutedStyle.Render("  •  "))
}

// formatRemaining prints tenths of a second, rounding up so 0.0 only shows
// once the round is over.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0.0s"
	}
	tenths := (d + 99*time.Millisecond) / (100 * time.Millisecond)
	return fmt.Sprintf("%d.%ds", tenths/10, tenths%10)
}

func renderSlots(s core.Snapshot) string {
	slots := make([]string, 0, s.BoardSize)
	for i := 0; i < s.BoardSize; i++ {
		p := core.Position(i)
		slots = append(slots, slotStyle(s, p).Render(keyForPosition(p)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, slots...)
}

func slotStyle(s core.Snapshot, p core.Position) lipgloss.Style {
	st := slotBase.BorderForeground(colorBorder)
	switch {
	case s.Missed == p:
		return st.BorderForeground(colorMiss).Foreground(colorMiss).Bold(true)
	case s.Lit == p:
		return st.BorderForeground(colorLit).Foreground(colorLit).Bold(true)
	case s.Revealed:
		return st.BorderForeground(colorPopped).Foreground(colorPopped)
	case s.IsActive(p):
		return st.BorderForeground(colorLit).Foreground(colorLit).Bold(true)
	case s.IsPressed(p):
		return st.BorderForeground(colorPopped).Foreground(colorPopped)
	}
	return st
}

func renderStatus(v PlayView) string {
	s := v.Snapshot
	switch s.State {
	case core.StateIdle:
		line := "Press space to start"
		if s.Timed() {
			line += mutedStyle.Render(fmt.Sprintf("  •  d: round length (%ds)", int(s.Duration/time.Second)))
		}
		return line
	case core.StateCountingDown:
		return titleStyle.Render(fmt.Sprintf("Get ready... %d", s.Countdown))
	case core.StateActive:
		if s.ClearReady {
			return goodStyle.Render("Board clear! Press space for a fresh board")
		}
		if s.Phase != core.PhaseNone {
			return hudStyle.Render(strings.ToUpper(s.Phase.String()))
		}
		return ""
	case core.StateFinished:
		line := badStyle.Render(strings.ToUpper(s.Reason.String())) + fmt.Sprintf("  Final score %d", s.Score)
		if v.NewHigh {
			line += "  " + goodStyle.Render("New best!")
		}
		return line + mutedStyle.Render("  •  space to continue")
	}
	return ""
}
