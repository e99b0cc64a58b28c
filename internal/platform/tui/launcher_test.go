package tui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/storage"
)

func openLauncherStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "launcher.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// instantModes removes the countdown so rounds start on Start.
func instantModes() config.ModesConfig {
	modes := config.Default()
	for id, m := range modes.Modes {
		m.Countdown = 0
		modes.Modes[id] = m
	}
	return modes
}

func TestLaunchUnknownMode(t *testing.T) {
	l := &Launcher{Modes: config.Default()}
	if _, err := l.Launch("nope", "ann"); !errors.Is(err, config.ErrUnknownMode) {
		t.Errorf("err = %v, expected ErrUnknownMode", err)
	}
}

func TestLaunchUsesSavedDuration(t *testing.T) {
	store := openLauncherStore(t)
	l := &Launcher{Modes: config.Default(), Store: store}

	l.SaveDuration(config.ModeClassic, 60)

	s, err := l.Launch(config.ModeClassic, "ann")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Game.Close()

	if d := s.Game.Snapshot().Duration; d != 60*time.Second {
		t.Errorf("duration = %v, expected saved 60s", d)
	}
}

func TestLaunchAppliesPreset(t *testing.T) {
	l := &Launcher{Modes: config.Default(), Preset: config.DifficultyEasy}
	s, err := l.Launch(config.ModeTappy, "ann")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Game.Close()

	if s.Game.Config().Lives != 5 {
		t.Errorf("lives = %d, expected easy preset's 5", s.Game.Config().Lives)
	}
}

func TestLaunchReportsScores(t *testing.T) {
	store := openLauncherStore(t)
	l := &Launcher{Modes: instantModes(), Store: store, Seed: 3}

	s, err := l.Launch(config.ModeClassic, "ann")
	if err != nil {
		t.Fatal(err)
	}

	game := s.Game
	game.Start()
	snap := game.Snapshot()
	if snap.State != core.StateActive {
		t.Fatalf("state = %v, expected active without countdown", snap.State)
	}
	game.Tap(snap.Active[0])
	game.Tap(snap.Active[1])
	game.Tap(raised(game.Snapshot()))
	if game.Snapshot().State != core.StateFinished {
		t.Fatal("wrong pop should finish the round")
	}

	// Close waits for the reporters
	game.Close()

	scores, err := store.TopScores(config.ModeClassic, 30, 10)
	if err != nil || len(scores) != 1 || scores[0].Score != 2 || scores[0].Player != "ann" {
		t.Errorf("scores = %+v, %v", scores, err)
	}
	board, err := store.Leaderboard(config.ModeClassic, 30, 10)
	if err != nil || len(board) != 1 || board[0].Best != 2 {
		t.Errorf("leaderboard = %+v, %v", board, err)
	}
	select {
	case best := <-s.NewHigh:
		if best != 2 {
			t.Errorf("new high = %d", best)
		}
	default:
		t.Error("first score should be a new high")
	}
	if l.Best(config.ModeClassic, 30) != 2 {
		t.Errorf("Best() = %d", l.Best(config.ModeClassic, 30))
	}
}

func TestLaunchWithoutStore(t *testing.T) {
	l := &Launcher{Modes: instantModes()}
	s, err := l.Launch(config.ModeBoppy, "ann")
	if err != nil {
		t.Fatal(err)
	}
	s.Game.Start()
	s.Game.Tap(raised(s.Game.Snapshot()))
	s.Game.Close()

	// Nothing to persist to; these must be harmless
	l.SaveDuration(config.ModeBoppy, 15)
	if l.Best(config.ModeBoppy, 30) != 0 {
		t.Error("Best without a store should be 0")
	}
}

func TestLaunchForwardsHaptics(t *testing.T) {
	l := &Launcher{Modes: instantModes()}
	s, err := l.Launch(config.ModeClassic, "ann")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Game.Close()

	s.Game.Start()
	s.Game.Tap(s.Game.Snapshot().Active[0])

	select {
	case c := <-s.Haptics.C():
		if c != core.CueScored {
			t.Errorf("cue = %v, expected scored", c)
		}
	case <-time.After(time.Second):
		t.Error("no haptic cue")
	}
}

func TestSessionBestFollowsRoundLength(t *testing.T) {
	store := openLauncherStore(t)
	store.SaveScore(config.ModeClassic, 30, "ann", 9)
	store.SaveScore(config.ModeClassic, 60, "ann", 40)
	store.SaveScore(config.ModeCopy, 0, "ann", 6)

	l := &Launcher{Modes: config.Default(), Store: store}
	l.SaveDuration(config.ModeClassic, 60)

	tests := []struct {
		mode string
		want int
	}{
		{config.ModeClassic, 40},
		{config.ModeCopy, 6},
		{config.ModeBoppy, 0},
	}
	for _, tc := range tests {
		s, err := l.Launch(tc.mode, "ann")
		if err != nil {
			t.Fatal(err)
		}
		if got := l.SessionBest(s); got != tc.want {
			t.Errorf("SessionBest(%s) = %d, expected %d", tc.mode, got, tc.want)
		}
		s.Game.Close()
	}
}
