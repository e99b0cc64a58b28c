package clock

import (
	"sync"
	"testing"
	"time"
)

// recorder collects callback values from clock goroutines.
type recorder struct {
	mu      sync.Mutex
	ticks   []int
	updates []time.Duration
	steps   []int
	done    int
	doneCh  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{doneCh: make(chan struct{}, 8)}
}

func (r *recorder) tick(n int) {
	r.mu.Lock()
	r.ticks = append(r.ticks, n)
	r.mu.Unlock()
}

func (r *recorder) update(d time.Duration) {
	r.mu.Lock()
	r.updates = append(r.updates, d)
	r.mu.Unlock()
}

func (r *recorder) step(i int) {
	r.mu.Lock()
	r.steps = append(r.steps, i)
	r.mu.Unlock()
}

func (r *recorder) finish() {
	r.mu.Lock()
	r.done++
	r.mu.Unlock()
	r.doneCh <- struct{}{}
}

func (r *recorder) waitDone(t *testing.T) {
	t.Helper()
	select {
	case <-r.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for phase to finish")
	}
}

func TestRealCountdown(t *testing.T) {
	c := NewReal(WithTickInterval(5 * time.Millisecond))
	r := newRecorder()

	c.Countdown(3, r.tick, r.finish)
	r.waitDone(t)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ticks) != 2 || r.ticks[0] != 2 || r.ticks[1] != 1 {
		t.Errorf("ticks = %v, expected [2 1]", r.ticks)
	}
	if r.done != 1 {
		t.Errorf("done fired %d times, expected 1", r.done)
	}
}

func TestRealRoundExpiresOnce(t *testing.T) {
	c := NewReal(WithUpdateInterval(2 * time.Millisecond))
	r := newRecorder()

	c.Round(30*time.Millisecond, r.update, r.finish)
	r.waitDone(t)

	// Give a stray tick the chance to misbehave
	time.Sleep(20 * time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != 1 {
		t.Errorf("expire fired %d times, expected 1", r.done)
	}
	for i := 1; i < len(r.updates); i++ {
		if r.updates[i] > r.updates[i-1] {
			t.Errorf("remaining time went up: %v then %v", r.updates[i-1], r.updates[i])
		}
	}
	for _, u := range r.updates {
		if u <= 0 || u > 30*time.Millisecond {
			t.Errorf("update %v out of range", u)
		}
	}
}

func TestRealRoundUsesEndTimestamp(t *testing.T) {
	// A time source that jumps forward makes expiry happen on the first
	// update regardless of how many ticks elapsed.
	var mu sync.Mutex
	now := time.Unix(1000, 0)
	clockNow := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	c := NewReal(WithUpdateInterval(time.Millisecond), WithNow(clockNow))
	r := newRecorder()
	c.Round(time.Hour, r.update, r.finish)

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	r.waitDone(t)
}

func TestRealStopPreventsFurtherCallbacks(t *testing.T) {
	c := NewReal(WithTickInterval(5*time.Millisecond), WithUpdateInterval(time.Millisecond))
	r := newRecorder()

	timer := c.Round(time.Hour, r.update, r.finish)
	time.Sleep(10 * time.Millisecond)
	timer.Stop()

	r.mu.Lock()
	seen := len(r.updates)
	r.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	// At most one update may have been in flight while Stop ran
	if len(r.updates) > seen+1 {
		t.Errorf("updates kept arriving after Stop: %d -> %d", seen, len(r.updates))
	}
	if r.done != 0 {
		t.Error("expire should never fire after Stop")
	}
}

func TestRealDoubleStop(t *testing.T) {
	c := NewReal(WithTickInterval(5 * time.Millisecond))
	r := newRecorder()

	timer := c.Countdown(3, r.tick, r.finish)
	timer.Stop()
	timer.Stop()

	time.Sleep(30 * time.Millisecond)

	r.mu.Lock()
	ticks, done := len(r.ticks), r.done
	r.mu.Unlock()
	if ticks != 0 || done != 0 {
		t.Errorf("stopped countdown emitted ticks=%d done=%d", ticks, done)
	}

	// Stop after natural completion is also fine
	finished := c.Countdown(0, nil, r.finish)
	r.waitDone(t)
	finished.Stop()
	finished.Stop()
}

func TestRealSteps(t *testing.T) {
	c := NewReal()
	r := newRecorder()

	c.Steps(3, 2*time.Millisecond, r.step, r.finish)
	r.waitDone(t)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.steps) != 3 {
		t.Fatalf("steps = %v, expected 3 steps", r.steps)
	}
	for i, s := range r.steps {
		if s != i {
			t.Errorf("step %d reported as %d", i, s)
		}
	}
}

func TestManualCountdown(t *testing.T) {
	m := NewManual()
	var ticks []int
	done := 0

	m.Countdown(3, func(n int) { ticks = append(ticks, n) }, func() { done++ })
	m.Tick()
	m.Tick()
	if done != 0 {
		t.Fatal("countdown finished early")
	}
	m.Tick()
	m.Tick() // finished timers ignore further ticks

	if len(ticks) != 2 || ticks[0] != 2 || ticks[1] != 1 {
		t.Errorf("ticks = %v, expected [2 1]", ticks)
	}
	if done != 1 {
		t.Errorf("done fired %d times, expected 1", done)
	}
}

func TestManualRoundAndStop(t *testing.T) {
	m := NewManual()
	var updates []time.Duration
	expired := 0

	timer := m.Round(time.Second, func(d time.Duration) { updates = append(updates, d) }, func() { expired++ })
	m.Advance(400 * time.Millisecond)
	m.Advance(400 * time.Millisecond)

	timer.Stop()
	timer.Stop()
	m.Advance(time.Second)

	if len(updates) != 2 || updates[1] != 200*time.Millisecond {
		t.Errorf("updates = %v", updates)
	}
	if expired != 0 {
		t.Error("stopped round should not expire")
	}
	if m.Live() != 0 {
		t.Errorf("Live() = %d, expected 0", m.Live())
	}
}

func TestManualSteps(t *testing.T) {
	m := NewManual()
	var steps []int
	done := 0

	m.Steps(2, time.Millisecond, func(i int) { steps = append(steps, i) }, func() { done++ })
	m.CompleteSteps()

	if len(steps) != 2 || done != 1 {
		t.Errorf("steps=%v done=%d", steps, done)
	}
	if last := m.Last(KindSteps); last == nil || !last.Done() {
		t.Error("stepped phase should be done")
	}
}
