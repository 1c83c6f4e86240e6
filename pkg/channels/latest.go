package channels

import (
	"context"
	"sync/atomic"
)

// Latest keeps the most recent value received from a channel. Readers never
// wait on the producer.
type Latest[T any] struct {
	v atomic.Pointer[T]
}

// Run stores every value received from ch until ch is closed or ctx is
// done.
func (l *Latest[T]) Run(ctx context.Context, ch <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			l.Store(msg)
		}
	}
}

func (l *Latest[T]) Store(v T) {
	l.v.Store(&v)
}

// Load returns the latest value. ok is false until one has arrived.
func (l *Latest[T]) Load() (T, bool) {
	p := l.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}

	return *p, true
}
