// internal/game/clock.go
//
// The elapsed-seconds timer. Sessions depend on the Clock interface; the
// system implementation ticks on a time.Ticker and tests drive a fake.

package game

import (
	"sync"
	"time"
)

// Clock schedules a recurring callback. The returned stop func cancels it;
// calling stop more than once is harmless.
type Clock interface {
	Every(d time.Duration, fn func()) (stop func())
}

// SystemClock ticks on a time.Ticker in its own goroutine.
type SystemClock struct{}

func (SystemClock) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				// stop may have raced the tick
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
