package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/poppy/internal/registry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.poppy/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the menu and play screens over SSH. Every connection
// plays as its SSH user against the shared score store.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	launcher *Launcher
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// Remote sessions never use the local sound device.
func NewSSHServer(cfg SSHServerConfig, l *Launcher, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	remote := *l
	remote.Sound = nil
	remote.Logger = logger

	srv := &SSHServer{
		config:   cfg,
		launcher: &remote,
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".poppy", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	model := NewSessionModel(s.launcher, sess.User(), pty.Window.Width, pty.Window.Height)
	s.logger.Debug("session model created", "user", sess.User(), "session", model.ID())

	// A dropped connection never sends quit; stop its round so it is not scored
	go func() {
		<-sess.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"took", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe blocks until the server is shut down.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages one remote player's flow: menu -> play -> menu.
type SessionModel struct {
	id       string
	launcher *Launcher
	player   string
	width    int
	height   int
	menu     MenuModel
	play     *Model
	notice   string
	quitting bool

	// live is shared by every copy of the model so the connection
	// teardown can reach the running game.
	live *liveGame
}

type liveGame struct {
	mu   sync.Mutex
	game registry.Game
}

func (g *liveGame) set(game registry.Game) {
	g.mu.Lock()
	g.game = game
	g.mu.Unlock()
}

func (g *liveGame) close() {
	g.mu.Lock()
	game := g.game
	g.game = nil
	g.mu.Unlock()
	if game != nil {
		game.Close()
	}
}

// NewSessionModel creates a new session model.
func NewSessionModel(l *Launcher, player string, width, height int) SessionModel {
	return SessionModel{
		id:       uuid.NewString(),
		launcher: l,
		player:   player,
		width:    width,
		height:   height,
		menu:     NewMenuModel(l, width, height),
		live:     &liveGame{},
	}
}

// Close stops the game the session is playing, if any. Safe to call from
// any goroutine and more than once.
func (m SessionModel) Close() {
	m.live.close()
}

// ID returns the session identifier used in logs.
func (m SessionModel) ID() string {
	return m.id
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.play != nil {
		return m.updatePlay(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The menu's own commands only quit its standalone program.
	newMenu, _ := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// The scoreboard is a local-only screen; remote players stay in the menu.
	if m.menu.WantsScoreboard() {
		m.menu = NewMenuModel(m.launcher, m.width, m.height)
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		sess, err := m.launcher.Launch(selected.ModeID, m.player)
		if err != nil {
			m.launcher.logger().Error("cannot launch mode", "session", m.id, "mode", selected.ModeID, "err", err)
			m.notice = "Cannot start " + selected.Title
			m.menu = NewMenuModel(m.launcher, m.width, m.height)
			return m, nil
		}
		m.notice = ""
		m.live.set(sess.Game)

		play := NewModel(sess, m.launcher.SessionBest(sess), m.launcher)
		play.width, play.height = m.width, m.height
		m.play = &play
		return m, m.play.Init()
	}

	return m, nil
}

// updatePlay handles updates when a mode is running.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if pm, ok := newModel.(Model); ok {
		m.play = &pm
	}

	if m.play.BackToMenu() {
		m.live.set(nil)
		m.play = nil
		m.menu = NewMenuModel(m.launcher, m.width, m.height)
		return m, m.menu.Init()
	}

	if m.play.IsQuitting() {
		m.live.set(nil)
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.play != nil {
		return m.play.View()
	}
	view := m.menu.View()
	if m.notice != "" {
		view += "\n" + centerText(badStyle.Render(m.notice), m.width)
	}
	return view
}
