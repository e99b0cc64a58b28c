package engine

import (
	"testing"

	"github.com/vovakirdan/poppy/internal/core"
)

func TestBroadcastDropsOldest(t *testing.T) {
	b := newBroadcaster()
	ch, cancel := b.subscribe()
	defer cancel()

	for i := 0; i < subscriptionBuffer+5; i++ {
		b.publish(core.Snapshot{Score: i})
	}

	first := <-ch
	if first.Score != 5 {
		t.Errorf("oldest kept snapshot has score %d, expected 5", first.Score)
	}
	var last core.Snapshot
	for len(ch) > 0 {
		last = <-ch
	}
	if last.Score != subscriptionBuffer+4 {
		t.Errorf("newest snapshot has score %d", last.Score)
	}
}

func TestBroadcastCancelAndClose(t *testing.T) {
	b := newBroadcaster()
	ch1, cancel1 := b.subscribe()
	ch2, _ := b.subscribe()

	cancel1()
	cancel1()
	if _, ok := <-ch1; ok {
		t.Error("cancelled channel should be closed")
	}

	b.publish(core.Snapshot{Score: 1})
	if s := <-ch2; s.Score != 1 {
		t.Errorf("Score = %d", s.Score)
	}

	b.close()
	b.close()
	if _, ok := <-ch2; ok {
		t.Error("close should close every channel")
	}

	late, cancel := b.subscribe()
	cancel()
	if _, ok := <-late; ok {
		t.Error("subscribing after close should yield a closed channel")
	}
	b.publish(core.Snapshot{}) // must not panic
}
