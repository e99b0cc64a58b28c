// Package clock drives the timed phases of a round: the pre-round countdown,
// the round timer and stepped presentations. Phases never block the caller
// and every phase can be stopped.
package clock

import (
	"context"
	"time"
)

// Timer is a handle to a running phase.
// Stop is idempotent and safe to call after the phase completed.
type Timer interface {
	Stop()
}

// Clock starts timed phases. Callbacks of one phase are strictly ordered and
// never run after Stop has returned.
type Clock interface {
	// Countdown decrements from `from` once per tick interval, calling onTick
	// with each remaining value above zero, then onDone exactly once.
	Countdown(from int, onTick func(remaining int), onDone func()) Timer

	// Round calls onUpdate with the remaining time at the update cadence and
	// onExpire exactly once when the remaining time reaches zero.
	Round(d time.Duration, onUpdate func(remaining time.Duration), onExpire func()) Timer

	// Steps calls onStep(i) for i in [0, n) one interval apart, then onDone
	// one interval after the last step.
	Steps(n int, interval time.Duration, onStep func(i int), onDone func()) Timer
}

// Default cadences.
const (
	DefaultTickInterval   = time.Second
	DefaultUpdateInterval = 50 * time.Millisecond
)

// Real is a wall-clock implementation backed by tickers. Each phase runs on
// its own goroutine and checks its context after every wait.
type Real struct {
	tickInterval   time.Duration
	updateInterval time.Duration
	now            func() time.Time
}

// Option configures a Real clock.
type Option func(*Real)

// WithTickInterval sets the countdown tick interval.
func WithTickInterval(d time.Duration) Option {
	return func(c *Real) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// WithUpdateInterval sets the round timer update cadence.
func WithUpdateInterval(d time.Duration) Option {
	return func(c *Real) {
		if d > 0 {
			c.updateInterval = d
		}
	}
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(c *Real) {
		if now != nil {
			c.now = now
		}
	}
}

// NewReal creates a wall-clock Clock.
func NewReal(opts ...Option) *Real {
	c := &Real{
		tickInterval:   DefaultTickInterval,
		updateInterval: DefaultUpdateInterval,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type realTimer struct {
	cancel context.CancelFunc
}

func (t realTimer) Stop() {
	t.cancel()
}

// Countdown implements Clock.
func (c *Real) Countdown(from int, onTick func(remaining int), onDone func()) Timer {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer cancel()

		ticker := time.NewTicker(c.tickInterval)
		defer ticker.Stop()

		for remaining := from; remaining > 0; {
			if !wait(ctx, ticker.C) {
				return
			}
			remaining--
			if remaining > 0 && onTick != nil {
				onTick(remaining)
			}
		}

		if ctx.Err() == nil && onDone != nil {
			onDone()
		}
	}()

	return realTimer{cancel: cancel}
}

// Round implements Clock. Remaining time is always derived from the end
// timestamp captured here, so scheduling jitter never accumulates.
func (c *Real) Round(d time.Duration, onUpdate func(remaining time.Duration), onExpire func()) Timer {
	ctx, cancel := context.WithCancel(context.Background())
	end := c.now().Add(d)

	go func() {
		defer cancel()

		ticker := time.NewTicker(c.updateInterval)
		defer ticker.Stop()

		for {
			if !wait(ctx, ticker.C) {
				return
			}
			remaining := end.Sub(c.now())
			if remaining <= 0 {
				if onExpire != nil {
					onExpire()
				}
				return
			}
			if onUpdate != nil {
				onUpdate(remaining)
			}
		}
	}()

	return realTimer{cancel: cancel}
}

// Steps implements Clock.
func (c *Real) Steps(n int, interval time.Duration, onStep func(i int), onDone func()) Timer {
	ctx, cancel := context.WithCancel(context.Background())
	if interval <= 0 {
		interval = c.tickInterval
	}

	go func() {
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 0; i < n; i++ {
			if !wait(ctx, ticker.C) {
				return
			}
			if onStep != nil {
				onStep(i)
			}
		}

		if !wait(ctx, ticker.C) {
			return
		}
		if onDone != nil {
			onDone()
		}
	}()

	return realTimer{cancel: cancel}
}

// wait blocks until the ticker fires or ctx is cancelled. It reports whether
// the caller may emit; cancellation is re-checked after waking so a tick that
// raced with Stop is dropped.
func wait(ctx context.Context, c <-chan time.Time) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c:
	}
	return ctx.Err() == nil
}

var _ Clock = (*Real)(nil)
