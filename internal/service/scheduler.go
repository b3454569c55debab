package service

import (
	"sync"
	"time"
)

// ticker is a cancellable repeating timer. Cancel is idempotent, safe from
// any goroutine including the callback itself, and guarantees no further
// callback starts after it returns the stop channel closed. A callback
// already in flight is expected to re-check session liveness under the
// session lock before mutating anything.
type ticker struct {
	stop chan struct{}
	once sync.Once
}

func newTicker(interval time.Duration, fn func()) *ticker {
	t := &ticker{stop: make(chan struct{})}
	go func() {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tk.C:
				fn()
			}
		}
	}()
	return t
}

// Cancel stops the ticker. It does not wait for an in-flight callback.
func (t *ticker) Cancel() {
	t.once.Do(func() { close(t.stop) })
}
