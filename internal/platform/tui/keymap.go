package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/poppy/internal/core"
)

// tapKeys lists the keys for positions 0..9 in board order.
var tapKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"}

// PlayKeyMap defines the key bindings while playing.
type PlayKeyMap struct {
	Tap      key.Binding
	Primary  key.Binding
	Duration key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Primary, k.Duration, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.Primary, k.Duration},
		{k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings for a board of size n.
func DefaultPlayKeyMap(n int) PlayKeyMap {
	if n < 1 || n > len(tapKeys) {
		n = len(tapKeys)
	}
	last := tapKeys[n-1]

	return PlayKeyMap{
		Tap: key.NewBinding(
			key.WithKeys(tapKeys[:n]...),
			key.WithHelp("1-"+last, "pop"),
		),
		Primary: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/clear"),
		),
		Duration: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "duration"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a player intent.
func (k PlayKeyMap) MapKey(msg tea.KeyMsg) core.Input {
	switch {
	case key.Matches(msg, k.Quit):
		return core.Input{Action: core.ActionQuit}
	case key.Matches(msg, k.Tap):
		return core.Input{Action: core.ActionTap, Position: positionForKey(msg.String())}
	case key.Matches(msg, k.Primary):
		return core.Input{Action: core.ActionPrimary}
	case key.Matches(msg, k.Duration):
		return core.Input{Action: core.ActionDuration}
	case key.Matches(msg, k.Back):
		return core.Input{Action: core.ActionBack}
	}
	return core.Input{Action: core.ActionNone}
}

func positionForKey(s string) core.Position {
	for i, k := range tapKeys {
		if k == s {
			return core.Position(i)
		}
	}
	return core.NoPosition
}

// keyForPosition returns the label printed on a slot.
func keyForPosition(p core.Position) string {
	if p < 0 || int(p) >= len(tapKeys) {
		return "?"
	}
	return tapKeys[p]
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
