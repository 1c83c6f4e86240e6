package collections_test

import (
	"testing"

	"github.com/alkime/scope/pkg/collections"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("basic types", func(t *testing.T) {
		ints := []int{1, 2, 3, 4}
		squared := collections.Apply(ints, func(i int) int {
			return i * i
		})

		require.Equal(t, []int{1, 4, 9, 16}, squared)
	})
}

func TestIndex(t *testing.T) {
	items := []string{"sine", "square", "pwm"}
	assert.Equal(t, 2, collections.Index(items, "pwm"))
	assert.Equal(t, -1, collections.Index(items, "dc"))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{i: 0, n: 3, want: 0},
		{i: 3, n: 3, want: 0},
		{i: 4, n: 3, want: 1},
		{i: -1, n: 3, want: 2},
		{i: -7, n: 3, want: 2},
		{i: 5, n: 0, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, collections.Wrap(tt.i, tt.n), "Wrap(%d, %d)", tt.i, tt.n)
	}
}

func TestMinMax(t *testing.T) {
	lo, hi, ok := collections.MinMax([]float64{0.5, -2, 3.25, 1})
	require.True(t, ok)
	assert.InDelta(t, -2, lo, 1e-12)
	assert.InDelta(t, 3.25, hi, 1e-12)

	_, _, ok = collections.MinMax([]float64(nil))
	assert.False(t, ok)
}
