package channels

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// subscriber holds a channel and its send timeout configuration.
type subscriber[T any] struct {
	ch       chan<- T
	timeout  time.Duration // zero means non-blocking
	inactive atomic.Bool
	dropped  atomic.Int32
}

func (s *subscriber[T]) send(msg T) {
	if s.inactive.Load() {
		s.dropped.Add(1)
		return
	}

	var err error
	if s.timeout > 0 {
		err = SendWithTimeout(s.ch, msg, s.timeout)
	} else {
		err = SendNonBlock(s.ch, msg)
	}

	if err != nil {
		// A closed channel is never retried.
		s.dropped.Add(1)
		if errors.Is(err, ErrChannelClosed) {
			s.inactive.Store(true)
		}
	}
}

// Broadcaster copies every published value to each subscriber. Publish never
// blocks: when the broadcaster falls behind, the value is counted as
// overflow and dropped. A slow subscriber only loses its own copies.
//
// On context cancellation, values already accepted are still delivered
// before Wait returns.
type Broadcaster[T any] struct {
	subscribers []*subscriber[T]
	input       chan T
	started     atomic.Bool
	closed      atomic.Bool
	overflow    atomic.Int32
	mu          sync.RWMutex
	wg          sync.WaitGroup
}

// NewBroadcaster returns a broadcaster whose input holds up to buffer
// values not yet handed to subscribers.
func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	return &Broadcaster[T]{input: make(chan T, max(1, buffer))}
}

// Subscribe adds a channel that receives values in non-blocking mode.
// Must be called before Run.
func (b *Broadcaster[T]) Subscribe(ch chan<- T) error {
	if ch == nil {
		return ErrNilChannel
	}

	b.subscribers = append(b.subscribers, &subscriber[T]{ch: ch})

	return nil
}

// SubscribeWithTimeout adds a channel that may block each delivery up to
// timeout. Must be called before Run.
func (b *Broadcaster[T]) SubscribeWithTimeout(ch chan<- T, timeout time.Duration) error {
	if ch == nil {
		return ErrNilChannel
	}

	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", timeout)
	}

	b.subscribers = append(b.subscribers, &subscriber[T]{ch: ch, timeout: timeout})

	return nil
}

// Run starts delivery. It returns an error if already started or if nobody
// subscribed.
func (b *Broadcaster[T]) Run(ctx context.Context) error {
	if len(b.subscribers) == 0 {
		return fmt.Errorf("no subscribers available")
	}

	if !b.started.CompareAndSwap(false, true) {
		return fmt.Errorf("broadcaster already started")
	}

	b.wg.Go(func() {
		for msg := range b.input {
			for _, sub := range b.subscribers {
				sub.send(msg)
			}
		}
	})

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		b.closed.Store(true)
		close(b.input)
		b.mu.Unlock()
	}()

	return nil
}

// Publish hands msg to the broadcaster. It reports false when the value was
// dropped, either because the input is full or the broadcaster has shut
// down.
func (b *Broadcaster[T]) Publish(msg T) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed.Load() {
		return false
	}

	if err := SendNonBlock(b.input, msg); err != nil {
		b.overflow.Add(1)
		return false
	}

	return true
}

// Wait blocks until delivery has finished after cancellation.
func (b *Broadcaster[T]) Wait() {
	b.wg.Wait()
}

// Overflow returns how many published values were dropped at the input.
func (b *Broadcaster[T]) Overflow() int {
	return int(b.overflow.Load())
}

type SubscriberStats struct {
	Dropped  int
	Inactive bool
}

// Stats reports per-subscriber delivery losses, in subscription order.
func (b *Broadcaster[T]) Stats() []SubscriberStats {
	stats := make([]SubscriberStats, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		stats = append(stats, SubscriberStats{
			Dropped:  int(sub.dropped.Load()),
			Inactive: sub.inactive.Load(),
		})
	}

	return stats
}
