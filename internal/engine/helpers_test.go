package engine

import (
	"sync"
	"testing"

	"github.com/vovakirdan/poppy/internal/clock"
	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
)

// scoreLog records score reports.
type scoreLog struct {
	mu    sync.Mutex
	calls []report
}

func (s *scoreLog) RegisterCandidateScore(score, durationKey int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, report{score: score, durationKey: durationKey})
}

func (s *scoreLog) get() []report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]report(nil), s.calls...)
}

// cueLog records cues.
type cueLog struct {
	mu   sync.Mutex
	cues []core.Cue
}

func (c *cueLog) Cue(cue core.Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = append(c.cues, cue)
}

func (c *cueLog) count(cue core.Cue) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, x := range c.cues {
		if x == cue {
			n++
		}
	}
	return n
}

type roundHarness struct {
	e      *RoundEngine
	clk    *clock.Manual
	scores *scoreLog
	cues   *cueLog
}

func newRoundHarness(t *testing.T, mode string, opts ...Option) *roundHarness {
	t.Helper()
	cfg, err := config.Default().Mode(mode)
	if err != nil {
		t.Fatal(err)
	}
	h := &roundHarness{clk: clock.NewManual(), scores: &scoreLog{}, cues: &cueLog{}}
	opts = append([]Option{
		WithClock(h.clk),
		WithSeed(7),
		WithReporters(h.scores),
		WithCues(h.cues),
	}, opts...)
	h.e = NewRound(mode, cfg, opts...)
	t.Cleanup(h.e.Close)
	return h
}

// activate starts a round and runs the countdown to completion.
func (h *roundHarness) activate(t *testing.T) core.Snapshot {
	t.Helper()
	h.e.Start()
	h.clk.CompleteCountdown()
	s := h.e.Snapshot()
	if s.State != core.StateActive {
		t.Fatalf("state after countdown = %v, expected active", s.State)
	}
	return s
}

// reports waits for in-flight score reports and returns them.
func (h *roundHarness) reports() []report {
	h.e.pending.Wait()
	return h.scores.get()
}

// illegalPosition returns a raised slot that is neither lit nor popped.
func illegalPosition(t *testing.T, s core.Snapshot) core.Position {
	t.Helper()
	for p := core.Position(0); int(p) < s.BoardSize; p++ {
		if !s.IsActive(p) && !s.IsPressed(p) {
			return p
		}
	}
	t.Fatal("no raised unlit slot on the board")
	return core.NoPosition
}

// checkInvariants verifies the board invariants of a snapshot.
func checkInvariants(t *testing.T, s core.Snapshot, maxActive int) {
	t.Helper()
	for _, p := range s.Active {
		if s.IsPressed(p) {
			t.Fatalf("position %d is both lit and popped", p)
		}
	}
	if s.State == core.StateActive && len(s.Active) > maxActive {
		t.Fatalf("%d slots lit, at most %d allowed", len(s.Active), maxActive)
	}
}
