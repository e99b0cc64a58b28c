package engine

import (
	"time"

	"github.com/vovakirdan/poppy/internal/board"
	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/selector"
)

// dailySalt keys the daily seed so it cannot be derived from the date alone.
const dailySalt = "poppy-daily"

// RoundEngine runs timed rounds on a board of lit slots:
//
//	idle --Start--> counting_down --0--> active --expiry / fatal tap--> finished --Dismiss--> idle
//	active --ConfirmClear [clear ready]--> active (board re-seeded)
type RoundEngine struct {
	base

	seed       int64
	sel        *selector.Selector
	board      *board.Tracker
	difficulty *config.DifficultyManager

	state      core.RoundState
	countdown  int
	duration   time.Duration
	remaining  time.Duration
	score      int
	lives      int
	clearReady bool
	revealed   bool
	missed     core.Position
	reason     core.FinishReason
}

// NewRound creates an idle round engine for the given mode.
func NewRound(id string, cfg config.ModeConfig, opts ...Option) *RoundEngine {
	o := buildOptions(cfg, opts)

	e := &RoundEngine{
		seed:       o.seed,
		board:      board.NewTracker(cfg.BoardSize),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		lives:      cfg.Lives,
		missed:     core.NoPosition,
	}
	e.init(id, cfg, o)
	e.snapshot = e.snapshotLocked

	if cfg.Daily {
		day, err := time.Parse("2006-01-02", o.date)
		if err != nil {
			// No or malformed WithDate: today's board
			day = time.Now()
		}
		e.seed = selector.DailySeed(day, dailySalt)
	}
	e.sel = selector.New(cfg.BoardSize, e.seed)

	e.duration = cfg.RoundDuration()
	if o.duration > 0 && !cfg.Daily && cfg.AllowsDuration(o.duration) {
		e.duration = time.Duration(o.duration) * time.Second
	}
	e.remaining = e.duration

	return e
}

// Start begins a new round. Ignored unless idle or finished.
func (e *RoundEngine) Start() {
	e.do(e.startLocked)
}

// Tap resolves a tap on p. Ignored unless a round is active.
func (e *RoundEngine) Tap(p core.Position) {
	e.do(func() { e.tapLocked(p) })
}

// ConfirmClear raises every popped slot and lights fresh targets.
// Ignored unless the board is clear-ready.
func (e *RoundEngine) ConfirmClear() {
	e.do(e.confirmClearLocked)
}

// Dismiss returns a finished round to idle. The score is kept.
func (e *RoundEngine) Dismiss() {
	e.do(e.dismissLocked)
}

// ChangeDuration sets the length of future rounds. Ignored unless idle,
// for daily modes, and for lengths the mode does not offer.
func (e *RoundEngine) ChangeDuration(seconds int) {
	e.do(func() { e.changeDurationLocked(seconds) })
}

// onCountdownComplete is the countdown's completion signal.
func (e *RoundEngine) onCountdownComplete() {
	e.do(e.countdownCompleteLocked)
}

// onRoundExpired is the round clock's expiry signal.
func (e *RoundEngine) onRoundExpired() {
	e.do(e.expireLocked)
}

func (e *RoundEngine) startLocked() {
	if e.state != core.StateIdle && e.state != core.StateFinished {
		return
	}
	gen := e.stopClockLocked()

	if e.cfg.Daily {
		// Every daily attempt replays the same targets
		e.sel = selector.New(e.cfg.BoardSize, e.seed)
	}
	e.board.Reset()
	e.score = 0
	e.lives = e.cfg.Lives
	e.clearReady = false
	e.revealed = false
	e.missed = core.NoPosition
	e.reason = core.FinishNone
	e.remaining = e.duration
	e.state = core.StateCountingDown
	e.countdown = e.cfg.Countdown
	e.changedLocked()

	e.log.Debug("round starting", "duration", e.duration, "countdown", e.countdown)

	if e.countdown <= 0 {
		e.beginRoundLocked()
		return
	}
	e.cueLocked(core.CueCountdownTick)
	e.timer = e.clk.Countdown(e.countdown,
		func(n int) { e.fire(gen, func() { e.countdownTickLocked(n) }) },
		func() { e.fire(gen, e.countdownCompleteLocked) },
	)
}

func (e *RoundEngine) countdownTickLocked(n int) {
	if e.state != core.StateCountingDown {
		return
	}
	e.countdown = n
	e.cueLocked(core.CueCountdownTick)
	e.changedLocked()
}

func (e *RoundEngine) countdownCompleteLocked() {
	if e.state != core.StateCountingDown {
		return
	}
	e.beginRoundLocked()
}

func (e *RoundEngine) beginRoundLocked() {
	gen := e.stopClockLocked()

	e.countdown = 0
	e.state = core.StateActive
	e.refillLocked()
	e.cueLocked(core.CueRoundStart)
	e.changedLocked()

	e.log.Debug("round active", "active", e.board.Active())

	e.timer = e.clk.Round(e.duration,
		func(d time.Duration) { e.fire(gen, func() { e.updateLocked(d) }) },
		func() { e.fire(gen, e.expireLocked) },
	)
}

func (e *RoundEngine) updateLocked(remaining time.Duration) {
	if e.state != core.StateActive {
		return
	}
	e.remaining = remaining
	e.changedLocked()
}

func (e *RoundEngine) expireLocked() {
	if e.state != core.StateActive {
		return
	}
	e.remaining = 0
	e.finishLocked(core.FinishTimeout)
}

// targetActiveLocked is how many slots should be lit at the current score.
func (e *RoundEngine) targetActiveLocked() int {
	return e.difficulty.ActiveCount(e.cfg.ActiveCount, e.cfg.BoardSize, e.score)
}

// refillLocked lights slots until the target count is reached or no raised
// slot is left. A shortfall is not an error: it means the board is filling.
func (e *RoundEngine) refillLocked() {
	want := e.targetActiveLocked() - e.board.ActiveCount()
	if want <= 0 {
		return
	}
	e.board.Activate(e.sel.Pick(e.board.Occupied(), want)...)
}

func (e *RoundEngine) tapLocked(p core.Position) {
	if e.state != core.StateActive {
		return
	}

	switch e.board.EvaluateTap(p) {
	case core.TapScored:
		e.score += e.cfg.ScoreIncrement
		e.cueLocked(core.CueScored)
		e.changedLocked()

		if e.board.BoardFull() {
			e.clearReady = true
			e.cueLocked(core.CueClearReady)
			e.log.Debug("board full", "score", e.score)
			return
		}
		e.refillLocked()

	case core.TapIllegal:
		e.cueLocked(core.CueIllegalTap)
		e.changedLocked()

		if e.cfg.Lives > 0 {
			e.lives--
			e.log.Debug("life lost", "position", p, "lives", e.lives)
			if e.lives > 0 {
				return
			}
		}
		e.missed = p
		e.revealed = true
		e.board.Reset()
		e.clearReady = false
		e.finishLocked(core.FinishMistake)

	case core.TapNoOp:
	}
}

func (e *RoundEngine) finishLocked(reason core.FinishReason) {
	e.stopClockLocked()

	e.state = core.StateFinished
	e.reason = reason
	e.reportLocked(e.score, int(e.duration/time.Second))
	e.cueLocked(core.CueRoundEnd)
	e.changedLocked()

	e.log.Info("round finished", "score", e.score, "reason", reason)
}

func (e *RoundEngine) confirmClearLocked() {
	if e.state != core.StateActive || !e.clearReady {
		return
	}
	e.board.ClearPressed()
	e.clearReady = false
	e.refillLocked()
	e.cueLocked(core.CueClear)
	e.changedLocked()
}

func (e *RoundEngine) dismissLocked() {
	if e.state != core.StateFinished {
		return
	}
	e.state = core.StateIdle
	e.remaining = e.duration
	e.board.Reset()
	e.clearReady = false
	e.revealed = false
	e.missed = core.NoPosition
	e.reason = core.FinishNone
	e.changedLocked()
}

func (e *RoundEngine) changeDurationLocked(seconds int) {
	if e.state != core.StateIdle || e.cfg.Daily || !e.cfg.AllowsDuration(seconds) {
		return
	}
	e.duration = time.Duration(seconds) * time.Second
	e.remaining = e.duration
	e.changedLocked()

	e.log.Debug("duration changed", "seconds", seconds)
}

func (e *RoundEngine) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		Mode:       e.id,
		State:      e.state,
		BoardSize:  e.cfg.BoardSize,
		Countdown:  e.countdown,
		Remaining:  e.remaining,
		Duration:   e.duration,
		Score:      e.score,
		Lives:      e.lives,
		Active:     e.board.Active(),
		Pressed:    e.board.Pressed(),
		ClearReady: e.clearReady,
		Revealed:   e.revealed,
		Missed:     e.missed,
		Reason:     e.reason,
		Lit:        core.NoPosition,
	}
}
