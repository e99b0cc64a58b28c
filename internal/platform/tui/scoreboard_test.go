package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/poppy/internal/config"
)

func TestScoreDurations(t *testing.T) {
	modes := config.Default()
	tests := []struct {
		mode string
		want []int
	}{
		{config.ModeClassic, []int{15, 30, 60}},
		{config.ModeDaily, []int{30}},
		{config.ModeCopy, []int{0}},
	}
	for _, tc := range tests {
		got := scoreDurations(modes.Modes[tc.mode])
		if len(got) != len(tc.want) {
			t.Errorf("%s: %v, expected %v", tc.mode, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: %v, expected %v", tc.mode, got, tc.want)
			}
		}
	}
}

func TestScoreboardCyclesModesAndDurations(t *testing.T) {
	store := openLauncherStore(t)
	store.SaveScore(config.ModeBoppy, 15, "ann", 4)
	store.SaveScore(config.ModeBoppy, 30, "bo", 9)
	store.SaveScore(config.ModeBoppy, 30, "cy", 11)

	m := NewScoreboardModel(store, config.Default(), 100, 30)
	// Modes are sorted by ID: boppy comes first
	if !strings.Contains(m.heading(), "Boppy (15s)") || len(m.rows) != 1 {
		t.Fatalf("heading %q, %d rows", m.heading(), len(m.rows))
	}

	next, _ := m.Update(runeKey("d"))
	m = next.(ScoreboardModel)
	if !strings.Contains(m.heading(), "(30s)") || len(m.rows) != 2 || m.rows[0].player != "cy" {
		t.Errorf("after d: heading %q, rows %+v", m.heading(), m.rows)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if strings.Contains(m.heading(), "Boppy") {
		t.Errorf("tab should move to the next mode, heading %q", m.heading())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if !strings.Contains(m.heading(), "Boppy (15s)") {
		t.Errorf("shift+tab should return to boppy at its first length, heading %q", m.heading())
	}
}

func TestScoreboardEmptyAndBack(t *testing.T) {
	m := NewScoreboardModel(nil, config.Default(), 60, 20)
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("empty board message missing")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestScoreboardPlayersView(t *testing.T) {
	store := openLauncherStore(t)
	for _, r := range []struct {
		player string
		score  int
	}{{"ann", 3}, {"ann", 8}, {"bo", 5}, {"ann", 6}} {
		store.SaveScore(config.ModeBoppy, 15, r.player, r.score)
		store.SubmitBest(config.ModeBoppy, 15, r.player, r.score)
	}

	m := NewScoreboardModel(store, config.Default(), 100, 30)
	if len(m.rows) != 4 {
		t.Fatalf("rounds view has %d rows, expected 4", len(m.rows))
	}

	next, _ := m.Update(runeKey("p"))
	m = next.(ScoreboardModel)
	if !strings.Contains(m.heading(), "players") {
		t.Errorf("heading %q should name the players view", m.heading())
	}
	if len(m.rows) != 2 || m.rows[0].player != "ann" || m.rows[0].score != 8 || m.rows[1].score != 5 {
		t.Errorf("players view rows = %+v", m.rows)
	}
	if !strings.Contains(m.View(), "Best") {
		t.Error("players view should title the score column Best")
	}
}
