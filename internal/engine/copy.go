package engine

import (
	"time"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
	"github.com/vovakirdan/poppy/internal/selector"
	"github.com/vovakirdan/poppy/internal/sequence"
)

// CopyEngine runs the sequence memory game. Each round shows the whole
// sequence one step at a time, then waits for the player to replay it. A
// correct replay scores one round and grows the sequence; the first wrong
// tap ends the run.
type CopyEngine struct {
	base

	rec        *sequence.Recorder
	difficulty *config.DifficultyManager

	state     core.RoundState
	phase     core.Phase
	countdown int
	score     int
	lit       core.Position
	progress  int
	missed    core.Position
	reason    core.FinishReason
}

// NewCopy creates an idle copy engine for the given mode.
func NewCopy(id string, cfg config.ModeConfig, opts ...Option) *CopyEngine {
	o := buildOptions(cfg, opts)

	e := &CopyEngine{
		rec:        sequence.NewRecorder(selector.New(cfg.BoardSize, o.seed)),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		lit:        core.NoPosition,
		missed:     core.NoPosition,
	}
	e.init(id, cfg, o)
	e.snapshot = e.snapshotLocked
	return e
}

// Start begins a new run. Ignored unless idle or finished.
func (e *CopyEngine) Start() {
	e.do(e.startLocked)
}

// Tap replays one step. Ignored unless the engine is waiting for input.
func (e *CopyEngine) Tap(p core.Position) {
	e.do(func() { e.tapLocked(p) })
}

// ConfirmClear does nothing: copy boards never fill up.
func (e *CopyEngine) ConfirmClear() {}

// Dismiss returns a finished run to idle and forgets the sequence.
// The score is kept.
func (e *CopyEngine) Dismiss() {
	e.do(e.dismissLocked)
}

// ChangeDuration does nothing: copy rounds are untimed.
func (e *CopyEngine) ChangeDuration(int) {}

func (e *CopyEngine) startLocked() {
	if e.state != core.StateIdle && e.state != core.StateFinished {
		return
	}
	gen := e.stopClockLocked()

	e.rec.BeginNewGame()
	e.score = 0
	e.progress = 0
	e.lit = core.NoPosition
	e.missed = core.NoPosition
	e.reason = core.FinishNone
	e.phase = core.PhaseNone
	e.state = core.StateCountingDown
	e.countdown = e.cfg.Countdown
	e.changedLocked()

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

func (e *CopyEngine) countdownTickLocked(n int) {
	if e.state != core.StateCountingDown {
		return
	}
	e.countdown = n
	e.cueLocked(core.CueCountdownTick)
	e.changedLocked()
}

func (e *CopyEngine) countdownCompleteLocked() {
	if e.state != core.StateCountingDown {
		return
	}
	e.beginRoundLocked()
}

func (e *CopyEngine) beginRoundLocked() {
	e.countdown = 0
	e.state = core.StateActive
	e.cueLocked(core.CueRoundStart)
	e.presentNextLocked()
}

// stepDelayLocked is the presentation interval for the current round.
func (e *CopyEngine) stepDelayLocked() time.Duration {
	return e.difficulty.StepDelay(e.cfg.StepDelay(), e.score)
}

// presentNextLocked grows the sequence by one step and starts showing it.
func (e *CopyEngine) presentNextLocked() {
	gen := e.stopClockLocked()

	e.rec.AppendRandomStep()
	e.rec.BeginPresentation()
	e.phase = core.PhasePresenting
	e.lit = core.NoPosition
	e.progress = 0
	e.changedLocked()

	e.log.Debug("presenting", "length", e.rec.Len())

	e.timer = e.clk.Steps(e.rec.Len(), e.stepDelayLocked(),
		func(int) { e.fire(gen, e.showStepLocked) },
		func() { e.fire(gen, e.presentationDoneLocked) },
	)
}

func (e *CopyEngine) showStepLocked() {
	if e.phase != core.PhasePresenting {
		return
	}
	p, ok := e.rec.Present()
	if !ok {
		return
	}
	e.lit = p
	e.cueLocked(core.CueStepShown)
	e.changedLocked()
}

func (e *CopyEngine) presentationDoneLocked() {
	if e.phase != core.PhasePresenting {
		return
	}
	e.rec.FinishPresentation()
	e.phase = core.PhaseAwaitingInput
	e.lit = core.NoPosition
	e.changedLocked()
}

func (e *CopyEngine) tapLocked(p core.Position) {
	if e.state != core.StateActive || e.phase != core.PhaseAwaitingInput {
		return
	}
	if p < 0 || int(p) >= e.cfg.BoardSize {
		return
	}

	outcome, complete := e.rec.SubmitInput(p)
	switch outcome {
	case sequence.StepCorrect:
		e.lit = p
		e.progress = e.rec.Index()
		e.cueLocked(core.CueScored)
		e.changedLocked()

		if complete {
			e.score++
			e.cueLocked(core.CueRoundComplete)
			e.log.Debug("round complete", "score", e.score)
			e.presentNextLocked()
		}

	case sequence.StepMismatch:
		e.missed = p
		e.lit = core.NoPosition
		e.cueLocked(core.CueIllegalTap)
		e.finishLocked(core.FinishMismatch)

	case sequence.StepIgnored:
	}
}

func (e *CopyEngine) finishLocked(reason core.FinishReason) {
	e.stopClockLocked()

	e.state = core.StateFinished
	e.phase = core.PhaseNone
	e.reason = reason
	e.reportLocked(e.score, 0)
	e.cueLocked(core.CueRoundEnd)
	e.changedLocked()

	e.log.Info("run finished", "score", e.score, "length", e.rec.Len())
}

func (e *CopyEngine) dismissLocked() {
	if e.state != core.StateFinished {
		return
	}
	e.state = core.StateIdle
	e.rec.BeginNewGame()
	e.progress = 0
	e.lit = core.NoPosition
	e.missed = core.NoPosition
	e.reason = core.FinishNone
	e.changedLocked()
}

func (e *CopyEngine) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		Mode:        e.id,
		State:       e.state,
		BoardSize:   e.cfg.BoardSize,
		Countdown:   e.countdown,
		Score:       e.score,
		Missed:      e.missed,
		Reason:      e.reason,
		Phase:       e.phase,
		Lit:         e.lit,
		SequenceLen: e.rec.Len(),
		Progress:    e.progress,
	}
}
