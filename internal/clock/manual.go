package clock

import (
	"sync"
	"time"
)

// TimerKind identifies which phase a ManualTimer models.
type TimerKind int

const (
	KindCountdown TimerKind = iota
	KindRound
	KindSteps
)

// ManualTimer is a phase started on a Manual clock. Its callbacks are
// exported so tests can fire a signal directly, including out of order.
type ManualTimer struct {
	Kind TimerKind

	Remaining     int           // countdown ticks left
	RemainingTime time.Duration // round time left
	Steps         int
	Interval      time.Duration
	NextStep      int

	OnTick   func(remaining int)
	OnUpdate func(remaining time.Duration)
	OnStep   func(i int)
	OnDone   func()

	mu      sync.Mutex
	stopped bool
	done    bool
}

// Stop implements Timer.
func (t *ManualTimer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (t *ManualTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Done reports whether the phase ran to completion.
func (t *ManualTimer) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *ManualTimer) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && !t.done
}

func (t *ManualTimer) finish() {
	t.mu.Lock()
	t.done = true
	t.mu.Unlock()
}

// Manual is a Clock driven by the test. Nothing fires until the test calls
// Tick, Advance or Step; callbacks run synchronously on the caller's
// goroutine. Stopped and finished timers never fire.
type Manual struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// NewManual creates a manual clock.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) add(t *ManualTimer) *ManualTimer {
	m.mu.Lock()
	m.timers = append(m.timers, t)
	m.mu.Unlock()
	return t
}

// Countdown implements Clock.
func (m *Manual) Countdown(from int, onTick func(remaining int), onDone func()) Timer {
	return m.add(&ManualTimer{Kind: KindCountdown, Remaining: from, OnTick: onTick, OnDone: onDone})
}

// Round implements Clock.
func (m *Manual) Round(d time.Duration, onUpdate func(remaining time.Duration), onExpire func()) Timer {
	return m.add(&ManualTimer{Kind: KindRound, RemainingTime: d, OnUpdate: onUpdate, OnDone: onExpire})
}

// Steps implements Clock.
func (m *Manual) Steps(n int, interval time.Duration, onStep func(i int), onDone func()) Timer {
	return m.add(&ManualTimer{Kind: KindSteps, Steps: n, Interval: interval, OnStep: onStep, OnDone: onDone})
}

// Started returns how many phases have been started.
func (m *Manual) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Last returns the most recently started phase of the given kind, or nil.
func (m *Manual) Last(kind TimerKind) *ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.timers) - 1; i >= 0; i-- {
		if m.timers[i].Kind == kind {
			return m.timers[i]
		}
	}
	return nil
}

// Live returns the number of phases that are neither stopped nor done.
func (m *Manual) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if t.live() {
			n++
		}
	}
	return n
}

// Tick advances the latest live countdown by one tick.
func (m *Manual) Tick() {
	t := m.Last(KindCountdown)
	if t == nil || !t.live() {
		return
	}

	t.mu.Lock()
	if t.Remaining > 0 {
		t.Remaining--
	}
	remaining := t.Remaining
	t.mu.Unlock()

	if remaining > 0 {
		if t.OnTick != nil {
			t.OnTick(remaining)
		}
		return
	}
	t.finish()
	if t.OnDone != nil {
		t.OnDone()
	}
}

// CompleteCountdown ticks the latest countdown until it finishes.
func (m *Manual) CompleteCountdown() {
	for {
		t := m.Last(KindCountdown)
		if t == nil || !t.live() {
			return
		}
		m.Tick()
	}
}

// Advance moves the latest live round timer forward by d.
func (m *Manual) Advance(d time.Duration) {
	t := m.Last(KindRound)
	if t == nil || !t.live() {
		return
	}

	t.mu.Lock()
	t.RemainingTime -= d
	remaining := t.RemainingTime
	t.mu.Unlock()

	if remaining > 0 {
		if t.OnUpdate != nil {
			t.OnUpdate(remaining)
		}
		return
	}
	t.finish()
	if t.OnDone != nil {
		t.OnDone()
	}
}

// Step fires the next step (or the completion) of the latest live stepped
// phase.
func (m *Manual) Step() {
	t := m.Last(KindSteps)
	if t == nil || !t.live() {
		return
	}

	t.mu.Lock()
	i := t.NextStep
	t.NextStep++
	t.mu.Unlock()

	if i < t.Steps {
		if t.OnStep != nil {
			t.OnStep(i)
		}
		return
	}
	t.finish()
	if t.OnDone != nil {
		t.OnDone()
	}
}

// CompleteSteps fires the latest stepped phase until it finishes.
func (m *Manual) CompleteSteps() {
	for {
		t := m.Last(KindSteps)
		if t == nil || !t.live() {
			return
		}
		m.Step()
	}
}

var _ Clock = (*Manual)(nil)
