package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/storage"
)

const (
	minWidthForSidebar = 80
	sidebarWidth       = 24
	boardRows          = 50
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Duration key.Binding
	Players  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMode, k.Duration, k.Players, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Duration, k.Players, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Duration: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "round length"),
		),
		Players: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "rounds/players"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// boardMode is one mode listed on the scoreboard with the round lengths its
// scores are kept under.
type boardMode struct {
	id        string
	title     string
	durations []int
}

// boardRow is one line of either view: a single round or a player's best.
type boardRow struct {
	player string
	score  int
	when   time.Time
}

// ScoreboardModel shows the best rounds, or the best player results, of one
// mode at one round length.
type ScoreboardModel struct {
	store *storage.Store
	modes []boardMode
	mode  int
	dur   int

	// players switches from single rounds to one best per player
	players bool
	rows    []boardRow

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, modes config.ModesConfig, width, height int) ScoreboardModel {
	var list []boardMode
	for _, id := range modes.IDs() {
		cfg := modes.Modes[id]
		list = append(list, boardMode{id: id, title: cfg.Title, durations: scoreDurations(cfg)})
	}

	m := ScoreboardModel{
		store:  store,
		modes:  list,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

// scoreDurations lists the duration keys a mode's scores can carry.
func scoreDurations(cfg config.ModeConfig) []int {
	switch {
	case !cfg.Timed():
		return []int{0}
	case cfg.Daily || len(cfg.Durations) == 0:
		return []int{cfg.Duration}
	}
	return append([]int(nil), cfg.Durations...)
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthForSidebar
}

func (m ScoreboardModel) newTable() table.Model {
	scoreTitle, dateTitle := "Score", "Played"
	if m.players {
		scoreTitle, dateTitle = "Best", "Set"
	}
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 14},
		{Title: scoreTitle, Width: 7},
		{Title: dateTitle, Width: 13},
	}

	avail := m.width - 6
	if m.wide() {
		avail -= sidebarWidth + 4
	}
	if extra := avail - 44; extra > 0 {
		columns[1].Width += min(extra, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorLit).
		Bold(true)
	t.SetStyles(s)
	return t
}

func (m ScoreboardModel) current() (boardMode, int, bool) {
	if len(m.modes) == 0 {
		return boardMode{}, 0, false
	}
	bm := m.modes[m.mode]
	return bm, bm.durations[m.dur%len(bm.durations)], true
}

// reload fetches the rows for the selected mode, length and view.
// Read errors show as an empty board.
func (m *ScoreboardModel) reload() {
	m.rows = nil
	bm, duration, ok := m.current()
	if ok && m.store != nil {
		if m.players {
			if entries, err := m.store.Leaderboard(bm.id, duration, boardRows); err == nil {
				for _, e := range entries {
					m.rows = append(m.rows, boardRow{player: e.Player, score: e.Best, when: e.UpdatedAt})
				}
			}
		} else if scores, err := m.store.TopScores(bm.id, duration, boardRows); err == nil {
			for _, s := range scores {
				m.rows = append(m.rows, boardRow{player: s.Player, score: s.Score, when: s.CreatedAt})
			}
		}
	}

	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			r.player,
			strconv.Itoa(r.score),
			r.when.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) moveMode(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.mode = (m.mode + delta + len(m.modes)) % len(m.modes)
	m.dur = 0
	m.reload()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.moveMode(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.moveMode(-1)
			return m, nil
		case key.Matches(msg, m.keys.Duration):
			m.dur++
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Players):
			m.players = !m.players
			m.table = m.newTable()
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// heading returns the title line for the selected board.
func (m ScoreboardModel) heading() string {
	bm, duration, ok := m.current()
	if !ok {
		return "HIGH SCORES"
	}
	title := "HIGH SCORES - " + bm.title
	if duration > 0 {
		title += fmt.Sprintf(" (%ds)", duration)
	}
	if m.players {
		title += " - players"
	}
	return title
}

// lengthChips renders the selected mode's round lengths, current one bracketed.
func (m ScoreboardModel) lengthChips() string {
	bm, duration, ok := m.current()
	if !ok || len(bm.durations) < 2 {
		return ""
	}
	chips := make([]string, len(bm.durations))
	for i, d := range bm.durations {
		chips[i] = fmt.Sprintf("%ds", d)
		if d == duration {
			chips[i] = hudStyle.Render("[" + chips[i] + "]")
		}
	}
	return strings.Join(chips, " ")
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	var body string
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			panel.Width(sidebarWidth).Render(m.sidebar()),
			"  ",
			panel.Render(m.boardContent()),
		)
	} else {
		var b strings.Builder
		if bm, _, ok := m.current(); ok {
			b.WriteString(centerText("< "+bm.title+" >", m.width))
			b.WriteString("\n")
		}
		if chips := m.lengthChips(); chips != "" {
			b.WriteString(centerText(chips, m.width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(centerText(panel.Render(m.boardContent()), m.width))
		body = b.String()
	}

	return centerText(titleStyle.Render(m.heading()), m.width) + "\n\n" +
		body + "\n" +
		mutedStyle.Render(m.help.View(m.keys))
}

func (m ScoreboardModel) sidebar() string {
	var b strings.Builder
	b.WriteString(hudStyle.Render("Modes"))
	b.WriteString("\n\n")
	for i, bm := range m.modes {
		line := "  " + truncate(bm.title, sidebarWidth-6)
		if i == m.mode {
			line = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("> " + truncate(bm.title, sidebarWidth-6))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if chips := m.lengthChips(); chips != "" {
		b.WriteString("\n")
		b.WriteString(chips)
	}
	return b.String()
}

func (m ScoreboardModel) boardContent() string {
	if len(m.rows) > 0 {
		return m.table.View()
	}
	return lipgloss.NewStyle().
		Foreground(colorMuted).
		Italic(true).
		Padding(2, 4).
		Render("No scores recorded yet.\nPlay a round to set a high score!")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, modes config.ModesConfig, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, modes, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
