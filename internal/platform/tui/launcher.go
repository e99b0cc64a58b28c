package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/leaderboard"
	"github.com/vovakirdan/poppy/internal/registry"
	"github.com/vovakirdan/poppy/internal/storage"
)

// Launcher builds ready-to-play engines with their collaborators wired:
// score history, leaderboard, sound and the persisted round length.
type Launcher struct {
	Modes  config.ModesConfig
	Store  *storage.Store // nil disables persistence
	Logger *log.Logger
	Sound  core.CueSink
	Preset config.DifficultyPreset
	Seed   int64
}

// Session is one running mode plus the UI-side collaborators it feeds.
type Session struct {
	Game    registry.Game
	Haptics *Haptics
	// NewHigh receives personal bests. Buffered; sends never block.
	NewHigh chan int
	Player  string
}

// Launch creates the engine for mode on behalf of player.
func (l *Launcher) Launch(mode, player string) (*Session, error) {
	cfg, err := l.Modes.Mode(mode)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, l.Preset)

	logger := l.logger().With("mode", mode, "player", player)
	s := &Session{
		Haptics: NewHaptics(),
		NewHigh: make(chan int, 1),
		Player:  player,
	}

	deps := registry.Deps{
		Cues:   core.Cues{l.Sound, s.Haptics},
		Logger: logger,
		Seed:   l.Seed,
	}

	if l.Store != nil {
		if d, derr := l.Store.Duration(mode); derr != nil {
			logger.Warn("cannot read saved duration", "err", derr)
		} else {
			deps.Duration = d
		}
		deps.Reporters = []core.ScoreReporter{
			&storage.Reporter{
				Store:  l.Store,
				Mode:   mode,
				Player: player,
				Logger: logger,
				OnNewHigh: func(score, _ int) {
					select {
					case s.NewHigh <- score:
					default:
					}
				},
			},
			&leaderboard.Submitter{Store: l.Store, Mode: mode, Player: player, Logger: logger},
		}
	}

	game, err := registry.Create(mode, cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot start %s: %w", mode, err)
	}
	s.Game = game
	return s, nil
}

// SaveDuration remembers the round length picked for mode.
func (l *Launcher) SaveDuration(mode string, seconds int) {
	if l.Store == nil {
		return
	}
	if err := l.Store.SetDuration(mode, seconds); err != nil {
		l.logger().Warn("cannot save duration", "mode", mode, "err", err)
	}
}

// Best returns the stored best for mode at the given round length.
func (l *Launcher) Best(mode string, duration int) int {
	if l.Store == nil {
		return 0
	}
	best, err := l.Store.HighScore(mode, duration)
	if err != nil {
		l.logger().Warn("cannot read best", "mode", mode, "err", err)
		return 0
	}
	return best
}

// SessionBest returns the stored best matching the round length s starts with.
func (l *Launcher) SessionBest(s *Session) int {
	snap := s.Game.Snapshot()
	return l.Best(s.Game.ID(), bestKey(snap.Timed(), int(snap.Duration/time.Second)))
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.New(io.Discard)
}
