// Package engine implements the per-mode game-state engines: the timed round
// engine behind Classic, Boppy, Tappy and Daily, and the sequence engine
// behind the Copy modes.
//
// Every command and every clock callback runs under the engine's mutex, so
// an engine behaves as a single logical thread. Clock callbacks carry the
// generation they were started with and are dropped once a newer phase (or
// no phase) owns the engine. Cues and score reports collected under the lock
// are delivered after it is released.
package engine

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poppy/internal/clock"
	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/core"
)

// Option configures an engine.
type Option func(*options)

type options struct {
	clock     clock.Clock
	logger    *log.Logger
	reporters []core.ScoreReporter
	cues      core.CueSink
	seed      int64
	duration  int
	date      string
}

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger. Engines log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReporters adds score collaborators. Each receives every final score.
func WithReporters(rs ...core.ScoreReporter) Option {
	return func(o *options) {
		for _, r := range rs {
			if r != nil {
				o.reporters = append(o.reporters, r)
			}
		}
	}
}

// WithCues sets the haptic and sound collaborator.
func WithCues(c core.CueSink) Option {
	return func(o *options) {
		o.cues = c
	}
}

// WithSeed fixes the target RNG seed. Zero means time based.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithDuration sets the initial round length in seconds, overriding the
// configured default when the mode allows it.
func WithDuration(seconds int) Option {
	return func(o *options) {
		o.duration = seconds
	}
}

// WithDate sets the UTC day (YYYY-MM-DD) a daily mode is seeded from.
func WithDate(date string) Option {
	return func(o *options) {
		o.date = date
	}
}

func buildOptions(cfg config.ModeConfig, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.NewReal(clock.WithUpdateInterval(cfg.UpdateInterval()))
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.seed == 0 {
		o.seed = time.Now().UnixNano()
	}
	return o
}

type report struct {
	score       int
	durationKey int
}

// effects are collaborator calls queued while the lock is held.
type effects struct {
	cues    []core.Cue
	reports []report
	changed bool
}

// base holds what both engines share: the lock, the clock handle and its
// generation, collaborators and subscriptions.
type base struct {
	id  string
	cfg config.ModeConfig
	clk clock.Clock
	log *log.Logger

	reporters []core.ScoreReporter
	cues      core.CueSink

	mu     sync.Mutex
	gen    uint64
	timer  clock.Timer
	closed bool
	fx     effects

	// snapshot builds the current snapshot; called with mu held.
	snapshot func() core.Snapshot

	subs    *broadcaster
	pending sync.WaitGroup
}

func (b *base) init(id string, cfg config.ModeConfig, o options) {
	b.id = id
	b.cfg = cfg
	b.clk = o.clock
	b.log = o.logger.With("mode", id)
	b.reporters = o.reporters
	b.cues = o.cues
	b.subs = newBroadcaster()
}

// ID returns the mode identifier.
func (b *base) ID() string {
	return b.id
}

// Title returns the display name.
func (b *base) Title() string {
	if b.cfg.Title != "" {
		return b.cfg.Title
	}
	return b.id
}

// Config returns the configuration the engine was built with.
func (b *base) Config() config.ModeConfig {
	return b.cfg
}

// do runs a command under the lock and delivers its effects afterwards.
func (b *base) do(fn func()) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	fn()
	b.release()
}

// fire is do for clock callbacks: fn only runs while gen is current.
func (b *base) fire(gen uint64, fn func()) {
	b.mu.Lock()
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		return
	}
	fn()
	b.release()
}

// stopClockLocked stops the running phase, if any, and invalidates its
// callbacks. It returns the generation for the next phase.
func (b *base) stopClockLocked() uint64 {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	return b.gen
}

func (b *base) cueLocked(c core.Cue) {
	b.fx.cues = append(b.fx.cues, c)
}

func (b *base) reportLocked(score, durationKey int) {
	b.fx.reports = append(b.fx.reports, report{score: score, durationKey: durationKey})
}

func (b *base) changedLocked() {
	b.fx.changed = true
}

// takeLocked publishes the new snapshot if anything changed and hands the
// queued collaborator calls to the caller.
func (b *base) takeLocked() effects {
	fx := b.fx
	b.fx = effects{}
	if fx.changed {
		b.subs.publish(b.snapshot())
	}
	return fx
}

// release unlocks the engine and delivers the effects queued while it was
// held. The delivery counts as pending work until it is done, so Close never
// returns while a report is still being handed out.
func (b *base) release() {
	fx := b.takeLocked()
	b.pending.Add(1)
	b.mu.Unlock()

	defer b.pending.Done()
	b.flush(fx)
}

func (b *base) flush(fx effects) {
	if b.cues != nil {
		for _, c := range fx.cues {
			b.cues.Cue(c)
		}
	}
	for _, r := range fx.reports {
		for _, rep := range b.reporters {
			b.pending.Add(1)
			go b.deliver(rep, r)
		}
	}
}

// deliver runs one score report. A panicking collaborator is logged and
// does not take the engine down.
func (b *base) deliver(rep core.ScoreReporter, r report) {
	defer b.pending.Done()
	defer func() {
		if p := recover(); p != nil {
			b.log.Error("score reporter panicked", "panic", p)
		}
	}()
	rep.RegisterCandidateScore(r.score, r.durationKey)
}

// Snapshot returns the current observable state.
func (b *base) Snapshot() core.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

// Subscribe returns a channel receiving a snapshot after every change,
// starting with the current state, and a func that ends the subscription.
func (b *base) Subscribe() (<-chan core.Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, cancel := b.subs.subscribe()
	if !b.closed {
		send(ch, b.snapshot())
	}
	return ch, cancel
}

// Close stops the clock, ends every subscription and waits for in-flight
// score reports. Commands after Close are ignored.
func (b *base) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		b.stopClockLocked()
	}
	b.mu.Unlock()

	b.subs.close()
	b.pending.Wait()
}
