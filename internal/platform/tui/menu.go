package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/registry"
)

// MenuItem represents a selectable mode in the menu.
type MenuItem struct {
	ModeID string
	Title  string
	Hint   string
}

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items  []MenuItem
	cursor int
	width  int
	height int

	// exit state, read back by RunMenu once the program ends
	quitting  bool
	picked    *MenuItem
	scoreboard bool
}

// NewMenuModel creates a new menu model listing every registered mode
// that has a configuration.
func NewMenuModel(l *Launcher, width, height int) MenuModel {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes))

	for _, info := range modes {
		cfg, err := l.Modes.Mode(info.ID)
		if err != nil {
			continue
		}
		title := cfg.Title
		if title == "" {
			title = info.Title
		}

		var hint string
		switch {
		case cfg.Daily:
			hint = "same board for everyone today"
		case cfg.Lives > 0:
			hint = fmt.Sprintf("%d lives", cfg.Lives)
		case !cfg.Timed():
			hint = "repeat the pattern"
		case cfg.Difficulty.Enabled:
			hint = "speeds up as you score"
		}

		if best := l.Best(info.ID, bestKey(cfg.Timed(), cfg.Duration)); best > 0 {
			if hint != "" {
				hint += ", "
			}
			hint += fmt.Sprintf("best %d", best)
		}

		items = append(items, MenuItem{ModeID: info.ID, Title: title, Hint: hint})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
	}
}

// bestKey is the duration key scores of a mode are stored under.
func bestKey(timed bool, duration int) int {
	if !timed {
		return 0
	}
	return duration
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Digits pick a mode directly, the same keys that tap slots in play
	if p := positionForKey(msg.String()); p >= 0 {
		if int(p) < len(m.items) {
			m.cursor = int(p)
			return m.pick()
		}
		return m, nil
	}

	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)
	case MenuActionDown:
		m.cursor = max(min(m.cursor+1, len(m.items)-1), 0)
	case MenuActionSelect:
		return m.pick()
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) pick() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	item := m.items[m.cursor]
	m.picked = &item
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		"",
		titleStyle.Render("  P O P P Y  "),
		"",
		"Pick a mode",
		"",
	}

	for i, item := range m.items {
		line := fmt.Sprintf("  %s  %-16s", keyForPosition(core.Position(i)), item.Title)
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Foreground(colorLit).
				Render(fmt.Sprintf("> %s  %-16s", keyForPosition(core.Position(i)), item.Title))
		}
		if item.Hint != "" {
			line += mutedStyle.Render(" " + item.Hint)
		}
		lines = append(lines, line)
	}

	last := keyForPosition(core.Position(max(len(m.items)-1, 0)))
	lines = append(lines, "", mutedStyle.Render("1-"+last+"/Enter: play  |  Tab: scores  |  Q: quit"))

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.picked
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.scoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (int, int) {
	return m.width, m.height
}

// centerText centers text within given width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	ModeID          string
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(l *Launcher, width, height int) (MenuResult, error) {
	model := NewMenuModel(l, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{}
	result.Width, result.Height = m.Size()

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting():
		result.Quit = true
	case m.Selected() != nil:
		result.ModeID = m.Selected().ModeID
	default:
		result.Quit = true
	}

	return result, nil
}
