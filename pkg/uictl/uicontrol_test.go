package uictl_test

import (
	"testing"

	"github.com/alkime/scope/pkg/uictl"
	"github.com/stretchr/testify/assert"
)

func TestRange_Clamp(t *testing.T) {
	t.Parallel()

	r := uictl.Range[float32]{Min: -5, Max: 5, Step: 0.5}
	assert.InDelta(t, -5, r.Clamp(-7), 1e-6)
	assert.InDelta(t, 5, r.Clamp(9), 1e-6)
	assert.InDelta(t, 1.5, r.Clamp(1.5), 1e-6)
}

func TestRange_NudgeUnsignedDoesNotWrap(t *testing.T) {
	t.Parallel()

	r := uictl.Range[uint16]{Min: 0, Max: 16384, Step: 64}
	assert.Equal(t, uint16(0), r.Nudge(32, -1))
	assert.Equal(t, uint16(128), r.Nudge(64, 1))
	assert.Equal(t, uint16(16384), r.Nudge(16380, 10))
}

func TestRange_Fraction(t *testing.T) {
	t.Parallel()

	r := uictl.Range[float64]{Min: -1, Max: 1, Step: 0.1}
	assert.InDelta(t, 0.5, r.Fraction(0), 1e-9)
	assert.InDelta(t, 1, r.Fraction(3), 1e-9)

	empty := uictl.Range[int]{Min: 2, Max: 2}
	assert.Zero(t, empty.Fraction(2))
}

func TestRange_CoarseSteps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, uictl.Range[int]{}.CoarseSteps())
	assert.Equal(t, 25, uictl.Range[int]{Coarse: 25}.CoarseSteps())
}
