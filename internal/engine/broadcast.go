package engine

import (
	"sync"

	"github.com/vovakirdan/poppy/internal/core"
)

// subscriptionBuffer is how many snapshots a slow reader may lag behind.
const subscriptionBuffer = 16

// broadcaster fans snapshots out to subscribers without ever blocking the
// engine. A full subscriber loses its oldest snapshot.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan core.Snapshot
	next   int
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan core.Snapshot)}
}

// subscribe registers a new channel and returns it with its cancel func.
// Cancelling twice is harmless.
func (b *broadcaster) subscribe() (chan core.Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan core.Snapshot, subscriptionBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// publish delivers s to every subscriber.
func (b *broadcaster) publish(s core.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		send(ch, s)
	}
}

// close closes every subscriber channel.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// send is a non-blocking send that drops the oldest buffered value when the
// channel is full.
func send(ch chan core.Snapshot, s core.Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
