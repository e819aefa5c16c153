package game

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSystemClockStops(t *testing.T) {
	var n atomic.Int64
	stop := SystemClock{}.Every(5*time.Millisecond, func() { n.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("clock never ticked")
		}
		time.Sleep(time.Millisecond)
	}

	stop()
	stop()
	time.Sleep(20 * time.Millisecond)
	settled := n.Load()
	time.Sleep(40 * time.Millisecond)
	if got := n.Load(); got != settled {
		t.Fatalf("clock ticked after stop: %d -> %d", settled, got)
	}
}
