package channels_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/scope/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect reads ch until it is closed or stays empty for a short while.
func collect(ch <-chan int) []int {
	var out []int

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}

			out = append(out, v)
		case <-time.After(10 * time.Millisecond):
			return out
		}
	}
}

func TestBroadcaster(t *testing.T) {
	t.Run("error cases", func(t *testing.T) {
		t.Run("subscribe with nil channel", func(t *testing.T) {
			b := channels.NewBroadcaster[int](4)
			require.ErrorIs(t, b.Subscribe(nil), channels.ErrNilChannel)
			require.ErrorIs(t, b.SubscribeWithTimeout(nil, time.Second), channels.ErrNilChannel)
		})

		t.Run("subscribe with non-positive timeout", func(t *testing.T) {
			b := channels.NewBroadcaster[int](4)
			err := b.SubscribeWithTimeout(make(chan int, 1), 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be positive")
		})

		t.Run("run with no subscribers", func(t *testing.T) {
			b := channels.NewBroadcaster[int](4)
			err := b.Run(t.Context())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no subscribers")
		})

		t.Run("run twice", func(t *testing.T) {
			b := channels.NewBroadcaster[int](4)
			require.NoError(t, b.Subscribe(make(chan int, 1)))
			require.NoError(t, b.Run(t.Context()))

			err := b.Run(t.Context())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "already started")
		})
	})

	t.Run("every subscriber receives every value", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		b := channels.NewBroadcaster[int](8)
		sub1 := make(chan int, 10)
		sub2 := make(chan int, 10)
		require.NoError(t, b.Subscribe(sub1))
		require.NoError(t, b.SubscribeWithTimeout(sub2, time.Second))
		require.NoError(t, b.Run(ctx))

		for i := 1; i <= 3; i++ {
			require.True(t, b.Publish(i))
		}

		cancel()
		b.Wait()
		close(sub1)
		close(sub2)

		assert.Equal(t, []int{1, 2, 3}, collect(sub1))
		assert.Equal(t, []int{1, 2, 3}, collect(sub2))
	})

	t.Run("a slow subscriber only loses its own copies", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		b := channels.NewBroadcaster[int](8)
		slow := make(chan int, 1)
		fast := make(chan int, 10)
		require.NoError(t, b.Subscribe(slow))
		require.NoError(t, b.Subscribe(fast))
		require.NoError(t, b.Run(ctx))

		for i := 1; i <= 3; i++ {
			b.Publish(i)
		}

		cancel()
		b.Wait()

		assert.Equal(t, []int{1, 2, 3}, collect(fast))
		assert.Equal(t, []int{1}, collect(slow))
		assert.Equal(t, 2, b.Stats()[0].Dropped)
		assert.Zero(t, b.Stats()[1].Dropped)
	})

	t.Run("closed subscriber becomes inactive", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		b := channels.NewBroadcaster[int](8)
		sub := make(chan int, 4)
		close(sub)
		require.NoError(t, b.Subscribe(sub))
		require.NoError(t, b.Run(ctx))

		b.Publish(1)
		b.Publish(2)
		cancel()
		b.Wait()

		stats := b.Stats()
		assert.True(t, stats[0].Inactive)
		assert.Equal(t, 2, stats[0].Dropped)
	})

	t.Run("publish after shutdown is dropped", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())

		b := channels.NewBroadcaster[int](1)
		require.NoError(t, b.Subscribe(make(chan int, 1)))
		require.NoError(t, b.Run(ctx))

		cancel()
		b.Wait()

		assert.Eventually(t, func() bool { return !b.Publish(1) }, time.Second, time.Millisecond)
	})
}
