package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/poppy/internal/core"
)

// DurationSaver persists the round length picked for a mode.
type DurationSaver interface {
	SaveDuration(mode string, seconds int)
}

// Model is the Bubble Tea model for playing one mode.
// It never mutates game state itself: keys become engine commands and the
// view is drawn from the last published snapshot.
type Model struct {
	session  *Session
	snapshot core.Snapshot
	events   <-chan core.Snapshot
	cancel   func()
	saver    DurationSaver
	keys     PlayKeyMap
	help     help.Model
	best     int
	newHigh  bool
	flash    *core.Cue
	flashSeq int
	width    int
	height   int

	quitting   bool
	backToMenu bool
}

// NewModel creates a play model for a launched session. best is the stored
// best for the current round length; saver may be nil.
func NewModel(s *Session, best int, saver DurationSaver) Model {
	events, cancel := s.Game.Subscribe()
	snap := s.Game.Snapshot()

	h := help.New()
	h.ShowAll = false

	return Model{
		session:  s,
		snapshot: snap,
		events:   events,
		cancel:   cancel,
		saver:    saver,
		keys:     DefaultPlayKeyMap(snap.BoardSize),
		help:     h,
		best:     best,
	}
}

// Init starts listening for snapshots and cues.
func (m Model) Init() tea.Cmd {
	return tea.Batch(listenCmd(m.events), listenCuesCmd(m.session.Haptics.C()))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case SnapshotMsg:
		return m.handleSnapshot(core.Snapshot(msg))

	case CueMsg:
		c := core.Cue(msg)
		m.flash = &c
		m.flashSeq++
		return m, tea.Batch(flashCmd(m.flashSeq), listenCuesCmd(m.session.Haptics.C()))

	case flashDoneMsg:
		if int(msg) == m.flashSeq {
			m.flash = nil
		}
		return m, nil

	case streamClosedMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) handleSnapshot(s core.Snapshot) (tea.Model, tea.Cmd) {
	prev := m.snapshot
	m.snapshot = s

	if s.State == core.StateCountingDown && prev.State != core.StateCountingDown {
		m.newHigh = false
	}
	if s.State == core.StateFinished && prev.State != core.StateFinished && s.Score > m.best {
		m.best = s.Score
		m.newHigh = true
	}
	select {
	case score := <-m.session.NewHigh:
		if score > m.best {
			m.best = score
		}
	default:
	}
	return m, listenCmd(m.events)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := m.keys.MapKey(msg)
	game := m.session.Game
	s := m.snapshot

	switch in.Action {
	case core.ActionQuit:
		m.quitting = true
		m.close()
		return m, tea.Quit

	case core.ActionBack:
		// Run returns to its caller, which shows the menu. SessionModel
		// checks BackToMenu first and drops the quit.
		m.backToMenu = true
		m.close()
		return m, tea.Quit

	case core.ActionTap:
		game.Tap(in.Position)

	case core.ActionPrimary:
		switch {
		case s.State == core.StateIdle:
			game.Start()
		case s.State == core.StateFinished:
			game.Dismiss()
		case s.ClearReady:
			game.ConfirmClear()
		}

	case core.ActionDuration:
		if s.State != core.StateIdle || !s.Timed() {
			return m, nil
		}
		cfg := game.Config()
		next := cfg.NextDuration(int(s.Duration.Seconds()))
		game.ChangeDuration(next)
		if m.saver != nil && cfg.AllowsDuration(next) && !cfg.Daily {
			m.saver.SaveDuration(game.ID(), next)
		}
	}

	return m, nil
}

func (m *Model) close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.session.Game.Close()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	v := PlayView{
		Title:    m.session.Game.Title(),
		Snapshot: m.snapshot,
		Best:     m.best,
		NewHigh:  m.newHigh,
		MaxLives: m.session.Game.Config().Lives,
		Flash:    m.flash,
	}
	return RenderPlay(v) + "\n\n" + mutedStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() core.Snapshot {
	return m.snapshot
}

// Run plays one session in the terminal until the player quits or goes
// back. It reports whether the player asked for the menu.
func Run(s *Session, best int, saver DurationSaver) (backToMenu bool, err error) {
	model := NewModel(s, best, saver)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	s.Game.Close()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.BackToMenu(), nil
	}
	return false, nil
}
