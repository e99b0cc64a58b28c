package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/poppy/internal/clock"
	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/selector"
)

func TestCountdown(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)

	h.e.Start()
	s := h.e.Snapshot()
	if s.State != core.StateCountingDown || s.Countdown != 3 {
		t.Fatalf("after Start: state=%v countdown=%d", s.State, s.Countdown)
	}

	h.e.Tap(0) // ignored while counting down
	h.clk.Tick()
	if got := h.e.Snapshot().Countdown; got != 2 {
		t.Errorf("countdown = %d, expected 2", got)
	}
	h.clk.Tick()
	h.clk.Tick()

	s = h.e.Snapshot()
	if s.State != core.StateActive || s.Countdown != 0 {
		t.Fatalf("after countdown: state=%v countdown=%d", s.State, s.Countdown)
	}
	if s.Score != 0 {
		t.Errorf("tap during countdown scored: %d", s.Score)
	}
	if got := h.cues.count(core.CueCountdownTick); got != 3 {
		t.Errorf("countdown tick cues = %d, expected 3", got)
	}
	if got := h.cues.count(core.CueRoundStart); got != 1 {
		t.Errorf("round start cues = %d, expected 1", got)
	}
}

func TestScenarioTapAllActive(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	s := h.activate(t)

	if len(s.Active) != 3 || len(s.Pressed) != 0 {
		t.Fatalf("after countdown: active=%v pressed=%v", s.Active, s.Pressed)
	}

	first := append([]core.Position(nil), s.Active...)
	for _, p := range first {
		h.e.Tap(p)
		checkInvariants(t, h.e.Snapshot(), 3)
	}

	s = h.e.Snapshot()
	if s.Score != 3 {
		t.Errorf("Score = %d, expected 3", s.Score)
	}
	if len(s.Pressed) != 3 {
		t.Errorf("Pressed = %v, expected 3 positions", s.Pressed)
	}
	if len(s.Active) != 3 {
		t.Errorf("Active = %v, expected refill to 3", s.Active)
	}
	for _, p := range first {
		if s.IsActive(p) {
			t.Errorf("popped position %d was lit again", p)
		}
	}
	if got := h.cues.count(core.CueScored); got != 3 {
		t.Errorf("scored cues = %d, expected 3", got)
	}
}

func TestScenarioBoardFullAndClear(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	h.activate(t)

	// Not clear-ready yet: ConfirmClear does nothing
	before := h.e.Snapshot()
	h.e.ConfirmClear()
	if after := h.e.Snapshot(); len(after.Pressed) != len(before.Pressed) || after.ClearReady {
		t.Fatal("ConfirmClear before the board filled changed state")
	}

	lastScore := 0
	for i := 0; i < 20; i++ {
		s := h.e.Snapshot()
		if s.ClearReady {
			break
		}
		if len(s.Active) == 0 {
			t.Fatalf("no lit slot but board not full: pressed=%v", s.Pressed)
		}
		h.e.Tap(s.Active[0])

		s = h.e.Snapshot()
		checkInvariants(t, s, 3)
		if s.Score < lastScore {
			t.Fatalf("score went down: %d -> %d", lastScore, s.Score)
		}
		lastScore = s.Score
	}

	s := h.e.Snapshot()
	if !s.ClearReady {
		t.Fatal("board never became clear-ready")
	}
	if len(s.Pressed) != 10 || len(s.Active) != 0 {
		t.Fatalf("full board: active=%v pressed=%v", s.Active, s.Pressed)
	}
	if s.Score != 10 {
		t.Errorf("Score = %d, expected 10", s.Score)
	}
	if got := h.cues.count(core.CueClearReady); got != 1 {
		t.Errorf("clear-ready cues = %d, expected 1", got)
	}

	// Every slot is popped, so any tap is a no-op
	h.e.Tap(4)
	if h.e.Snapshot().State != core.StateActive {
		t.Fatal("tap on a full board ended the round")
	}

	h.e.ConfirmClear()
	s = h.e.Snapshot()
	if s.ClearReady || len(s.Pressed) != 0 || len(s.Active) != 3 {
		t.Errorf("after clear: ready=%v active=%v pressed=%v", s.ClearReady, s.Active, s.Pressed)
	}
	if s.Score != 10 || s.State != core.StateActive {
		t.Errorf("after clear: score=%d state=%v", s.Score, s.State)
	}
	if got := h.cues.count(core.CueClear); got != 1 {
		t.Errorf("clear cues = %d, expected 1", got)
	}
	if h.clk.Last(clock.KindRound).Stopped() {
		t.Error("clearing the board should not touch the round clock")
	}
}

func TestScenarioIllegalTapEndsRound(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	s := h.activate(t)

	h.e.Tap(s.Active[0])
	h.e.Tap(s.Active[1])
	s = h.e.Snapshot()

	bad := illegalPosition(t, s)
	h.e.Tap(bad)

	s = h.e.Snapshot()
	if s.State != core.StateFinished || s.Reason != core.FinishMistake {
		t.Fatalf("state=%v reason=%v, expected finished by mistake", s.State, s.Reason)
	}
	if s.Score != 2 {
		t.Errorf("Score = %d, expected 2", s.Score)
	}
	if !s.Revealed || len(s.Active) != 0 || len(s.Pressed) != 0 {
		t.Errorf("board not raised: revealed=%v active=%v pressed=%v", s.Revealed, s.Active, s.Pressed)
	}
	if s.Missed != bad {
		t.Errorf("Missed = %d, expected %d", s.Missed, bad)
	}
	if !h.clk.Last(clock.KindRound).Stopped() {
		t.Error("round clock should be stopped")
	}

	// Further taps and a late expiry change nothing
	h.e.Tap(bad)
	h.e.onRoundExpired()

	reports := h.reports()
	if len(reports) != 1 {
		t.Fatalf("score reported %d times, expected once", len(reports))
	}
	if reports[0].score != 2 || reports[0].durationKey != 30 {
		t.Errorf("report = %+v, expected score 2 for 30s", reports[0])
	}
	if got := h.cues.count(core.CueIllegalTap); got != 1 {
		t.Errorf("illegal tap cues = %d, expected 1", got)
	}
}

func TestScenarioDoubleExpiry(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	h.activate(t)

	round := h.clk.Last(clock.KindRound)
	if round == nil || round.RemainingTime != 30*time.Second {
		t.Fatalf("round phase not started for 30s: %+v", round)
	}

	// Fire the captured expiry signal twice, then the internal handler twice
	round.OnDone()
	round.OnDone()
	h.e.onRoundExpired()
	h.e.onRoundExpired()

	s := h.e.Snapshot()
	if s.State != core.StateFinished || s.Reason != core.FinishTimeout {
		t.Fatalf("state=%v reason=%v, expected finished by timeout", s.State, s.Reason)
	}
	if s.Remaining != 0 {
		t.Errorf("Remaining = %v, expected 0", s.Remaining)
	}
	if n := len(h.reports()); n != 1 {
		t.Errorf("score reported %d times, expected once", n)
	}
	if got := h.cues.count(core.CueRoundEnd); got != 1 {
		t.Errorf("round end cues = %d, expected 1", got)
	}
}

func TestRemainingTimeFollowsClock(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	h.activate(t)

	h.clk.Advance(10 * time.Second)
	if got := h.e.Snapshot().Remaining; got != 20*time.Second {
		t.Errorf("Remaining = %v, expected 20s", got)
	}

	h.clk.Advance(25 * time.Second)
	if s := h.e.Snapshot(); s.State != core.StateFinished {
		t.Errorf("state = %v after the clock ran out", s.State)
	}
}

func TestFirstWriterWins(t *testing.T) {
	t.Run("illegal tap then expiry", func(t *testing.T) {
		h := newRoundHarness(t, config.ModeClassic)
		s := h.activate(t)
		round := h.clk.Last(clock.KindRound)

		h.e.Tap(illegalPosition(t, s))
		round.OnDone()

		if got := h.e.Snapshot().Reason; got != core.FinishMistake {
			t.Errorf("reason = %v, expected mistake", got)
		}
		if n := len(h.reports()); n != 1 {
			t.Errorf("reported %d times", n)
		}
	})

	t.Run("expiry then illegal tap", func(t *testing.T) {
		h := newRoundHarness(t, config.ModeClassic)
		s := h.activate(t)

		h.clk.Advance(time.Minute)
		h.e.Tap(illegalPosition(t, s))

		s = h.e.Snapshot()
		if s.Reason != core.FinishTimeout || s.Revealed {
			t.Errorf("reason=%v revealed=%v, expected timeout without reveal", s.Reason, s.Revealed)
		}
		if n := len(h.reports()); n != 1 {
			t.Errorf("reported %d times", n)
		}
	})
}

func TestCommandsInWrongStateAreIgnored(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)

	// Idle
	h.e.Tap(0)
	h.e.ConfirmClear()
	h.e.Dismiss()
	if s := h.e.Snapshot(); s.State != core.StateIdle || s.Score != 0 {
		t.Fatalf("idle engine changed: %+v", s)
	}

	h.activate(t)
	started := h.clk.Started()

	// Active
	h.e.Start()
	h.e.Dismiss()
	h.e.ChangeDuration(60)
	s := h.e.Snapshot()
	if s.State != core.StateActive || s.Duration != 30*time.Second {
		t.Errorf("active engine changed: state=%v duration=%v", s.State, s.Duration)
	}
	if h.clk.Started() != started {
		t.Error("Start while active started a new clock")
	}
}

func TestDismissKeepsScore(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	s := h.activate(t)

	h.e.Tap(s.Active[0])
	h.clk.Advance(10 * time.Second)
	h.e.Tap(illegalPosition(t, h.e.Snapshot()))

	h.e.Dismiss()
	s = h.e.Snapshot()
	if s.State != core.StateIdle {
		t.Fatalf("state = %v, expected idle", s.State)
	}
	if s.Score != 1 {
		t.Errorf("Score = %d, expected 1 kept after dismiss", s.Score)
	}
	if s.Remaining != 30*time.Second {
		t.Errorf("Remaining = %v, expected reset to 30s", s.Remaining)
	}
	if s.Revealed || s.Missed != core.NoPosition {
		t.Error("dismiss should clear the reveal")
	}

	// Score resets only on Start
	h.e.Start()
	if got := h.e.Snapshot().Score; got != 0 {
		t.Errorf("Score after Start = %d, expected 0", got)
	}
}

func TestRestartNeverRunsTwoClocks(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)
	s := h.activate(t)
	old := h.clk.Last(clock.KindRound)

	h.e.Tap(illegalPosition(t, s))
	h.e.Dismiss()
	h.e.Start()

	if h.clk.Live() != 1 {
		t.Fatalf("%d live clock phases, expected only the new countdown", h.clk.Live())
	}

	// Signals from the old round's clock are dropped
	old.OnUpdate(time.Second)
	old.OnDone()
	if s := h.e.Snapshot(); s.State != core.StateCountingDown {
		t.Fatalf("stale expiry changed state to %v", s.State)
	}

	h.clk.CompleteCountdown()
	old.OnDone()
	s = h.e.Snapshot()
	if s.State != core.StateActive || s.Remaining != 30*time.Second {
		t.Errorf("stale signals reached the new round: state=%v remaining=%v", s.State, s.Remaining)
	}
	if n := len(h.reports()); n != 1 {
		t.Errorf("reported %d times, expected once for the first round", n)
	}
}

func TestChangeDuration(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)

	h.e.ChangeDuration(60)
	s := h.e.Snapshot()
	if s.Duration != time.Minute || s.Remaining != time.Minute {
		t.Fatalf("duration=%v remaining=%v, expected 60s", s.Duration, s.Remaining)
	}

	h.e.ChangeDuration(45) // not offered
	h.e.ChangeDuration(-1)
	if got := h.e.Snapshot().Duration; got != time.Minute {
		t.Errorf("unsupported length changed duration to %v", got)
	}

	s = h.activate(t)
	if got := h.clk.Last(clock.KindRound).RemainingTime; got != time.Minute {
		t.Errorf("round clock started for %v, expected 60s", got)
	}
	h.e.Tap(illegalPosition(t, s))
	if r := h.reports(); len(r) != 1 || r[0].durationKey != 60 {
		t.Errorf("reports = %+v, expected duration key 60", r)
	}
}

func TestPersistedDuration(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic, WithDuration(15))
	if got := h.e.Snapshot().Duration; got != 15*time.Second {
		t.Errorf("Duration = %v, expected 15s", got)
	}

	bad := newRoundHarness(t, config.ModeClassic, WithDuration(17))
	if got := bad.e.Snapshot().Duration; got != 30*time.Second {
		t.Errorf("Duration = %v, expected the 30s default", got)
	}
}

func TestLivesMode(t *testing.T) {
	h := newRoundHarness(t, config.ModeTappy)
	s := h.activate(t)
	if s.Lives != 3 || len(s.Active) != 2 {
		t.Fatalf("tappy start: lives=%d active=%v", s.Lives, s.Active)
	}

	h.e.Tap(s.Active[0])
	for want := 2; want >= 1; want-- {
		h.e.Tap(illegalPosition(t, h.e.Snapshot()))
		s = h.e.Snapshot()
		if s.State != core.StateActive || s.Lives != want {
			t.Fatalf("after mistake: state=%v lives=%d, expected active with %d", s.State, s.Lives, want)
		}
		checkInvariants(t, s, 2)
	}

	h.e.Tap(illegalPosition(t, h.e.Snapshot()))
	s = h.e.Snapshot()
	if s.State != core.StateFinished || s.Lives != 0 || s.Reason != core.FinishMistake {
		t.Fatalf("after last life: state=%v lives=%d reason=%v", s.State, s.Lives, s.Reason)
	}
	if got := h.cues.count(core.CueIllegalTap); got != 3 {
		t.Errorf("illegal tap cues = %d, expected 3", got)
	}
	if r := h.reports(); len(r) != 1 || r[0].score != 1 || r[0].durationKey != 45 {
		t.Errorf("reports = %+v", r)
	}

	// Lives come back on the next round
	h.e.Start()
	if got := h.e.Snapshot().Lives; got != 3 {
		t.Errorf("Lives after Start = %d, expected 3", got)
	}
}

func TestActiveCountGrowsWithScore(t *testing.T) {
	h := newRoundHarness(t, config.ModeBoppy)
	s := h.activate(t)
	if len(s.Active) != 1 {
		t.Fatalf("boppy starts with %v lit, expected 1", s.Active)
	}

	dm := config.NewDifficultyManager(h.e.cfg.Difficulty)
	peak := 0
	for i := 0; i < 200 && s.Score < 45; i++ {
		if s.ClearReady {
			h.e.ConfirmClear()
		} else {
			h.e.Tap(s.Active[0])
		}
		s = h.e.Snapshot()
		checkInvariants(t, s, dm.ActiveCount(1, 10, s.Score))
		if len(s.Active) > peak {
			peak = len(s.Active)
		}
	}

	if s.Score < 45 {
		t.Fatalf("score only reached %d", s.Score)
	}
	if peak != 4 {
		t.Errorf("peak lit slots = %d, expected 4", peak)
	}
}

func TestDailySeedIsShared(t *testing.T) {
	a := newRoundHarness(t, config.ModeDaily, WithDate("2026-10-17"), WithSeed(1))
	b := newRoundHarness(t, config.ModeDaily, WithDate("2026-10-17"), WithSeed(2))

	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	if want := selector.DailySeed(day, dailySalt); a.e.seed != want || b.e.seed != want {
		t.Errorf("seeds %d, %d, expected the date's seed %d", a.e.seed, b.e.seed, want)
	}
	if other := newRoundHarness(t, config.ModeDaily, WithDate("2026-10-18")); other.e.seed == a.e.seed {
		t.Error("the next day should get another seed")
	}
	today := selector.DailySeed(time.Now(), dailySalt)
	if bad := newRoundHarness(t, config.ModeDaily, WithDate("17/10/2026")); bad.e.seed != today {
		t.Errorf("malformed date seed = %d, expected today's %d", bad.e.seed, today)
	}

	first := a.activate(t).Active
	if got := b.activate(t).Active; !equalPositions(first, got) {
		t.Errorf("same day, different targets: %v vs %v", first, got)
	}

	// A second attempt on the same engine replays the same targets
	a.e.Tap(illegalPosition(t, a.e.Snapshot()))
	a.e.Dismiss()
	if got := a.activate(t).Active; !equalPositions(first, got) {
		t.Errorf("retry saw different targets: %v vs %v", first, got)
	}
}

func TestDailyDurationIsFixed(t *testing.T) {
	h := newRoundHarness(t, config.ModeDaily, WithDuration(60))
	if got := h.e.Snapshot().Duration; got != 30*time.Second {
		t.Errorf("Duration = %v, expected fixed 30s", got)
	}
	h.e.ChangeDuration(60)
	if got := h.e.Snapshot().Duration; got != 30*time.Second {
		t.Errorf("ChangeDuration altered the daily length to %v", got)
	}
}

func TestSubscribe(t *testing.T) {
	h := newRoundHarness(t, config.ModeClassic)

	ch, cancel := h.e.Subscribe()
	defer cancel()

	if s := <-ch; s.State != core.StateIdle {
		t.Fatalf("first snapshot state = %v, expected idle", s.State)
	}

	h.e.Start()
	if s := <-ch; s.State != core.StateCountingDown {
		t.Errorf("snapshot after Start = %v", s.State)
	}

	// A no-op command publishes nothing
	h.e.Dismiss()
	select {
	case s := <-ch:
		t.Errorf("unexpected snapshot %v", s.State)
	default:
	}

	h.e.Close()
	for range ch {
	}
}

func TestCloseWaitsForReports(t *testing.T) {
	cfg := config.Default().Modes[config.ModeClassic]
	m := clock.NewManual()

	var mu sync.Mutex
	delivered := false
	slow := core.ScoreReporterFunc(func(score, key int) {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		delivered = true
		mu.Unlock()
	})

	e := NewRound(config.ModeClassic, cfg, WithClock(m), WithSeed(3), WithReporters(slow))
	e.Start()
	m.CompleteCountdown()
	m.Advance(time.Minute)
	e.Close()

	mu.Lock()
	defer mu.Unlock()
	if !delivered {
		t.Error("Close returned before the score report finished")
	}

	// Closed engines ignore commands
	e.Start()
	if s := e.Snapshot(); s.State != core.StateFinished {
		t.Errorf("closed engine changed state to %v", s.State)
	}
}

func TestPanickingReporterIsContained(t *testing.T) {
	cfg := config.Default().Modes[config.ModeClassic]
	m := clock.NewManual()
	good := &scoreLog{}
	bad := core.ScoreReporterFunc(func(int, int) { panic("disk on fire") })

	e := NewRound(config.ModeClassic, cfg, WithClock(m), WithSeed(3), WithReporters(bad, good))
	e.Start()
	m.CompleteCountdown()
	m.Advance(time.Minute)
	e.Close()

	if n := len(good.get()); n != 1 {
		t.Errorf("healthy reporter called %d times, expected 1", n)
	}
}

func TestRealClockUnderConcurrentTaps(t *testing.T) {
	cfg := config.Default().Modes[config.ModeClassic]
	cfg.Duration = 1
	cfg.Durations = nil
	cfg.Countdown = 1

	scores := &scoreLog{}
	clk := clock.NewReal(clock.WithTickInterval(time.Millisecond), clock.WithUpdateInterval(time.Millisecond))
	e := NewRound(config.ModeClassic, cfg, WithClock(clk), WithSeed(9), WithReporters(scores))
	defer e.Close()

	ch, cancel := e.Subscribe()
	defer cancel()
	e.Start()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := e.Snapshot()
				if len(s.Active) > 0 {
					e.Tap(s.Active[0])
				}
				if s.ClearReady {
					e.ConfirmClear()
				}
			}
		}()
	}

	timeout := time.After(5 * time.Second)
	for finished := false; !finished; {
		select {
		case s := <-ch:
			finished = s.State == core.StateFinished
		case <-timeout:
			close(stop)
			wg.Wait()
			t.Fatal("round never finished")
		}
	}
	close(stop)
	wg.Wait()

	e.pending.Wait()
	if n := len(scores.get()); n != 1 {
		t.Errorf("score reported %d times, expected once", n)
	}
}

func equalPositions(a, b []core.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
