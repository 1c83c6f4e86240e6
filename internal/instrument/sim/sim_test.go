package sim_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/instrument/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_RecordsCalls(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	in := sim.New()

	require.NoError(t, in.Start(ctx))
	require.NoError(t, in.SetAmplitude(ctx, instrument.OUT1, 0.5))
	require.NoError(t, in.StartOutput(ctx, instrument.OUT2))
	require.NoError(t, in.SetTriggerDelay(ctx, 100))
	require.NoError(t, in.Stop(ctx))

	assert.Equal(t, []string{
		"acquire.start",
		"generator.set-amplitude OUT1 0.5",
		"generator.start OUT2",
		"trigger.set-delay 100",
		"acquire.stop",
	}, in.Calls())

	in.ResetCalls()
	assert.Empty(t, in.Calls())
}

func TestSim_StateRoundTrips(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	in := sim.New()

	require.NoError(t, in.SetForm(ctx, instrument.OUT1, instrument.FormPWM))
	require.NoError(t, in.SetDutyCycle(ctx, instrument.OUT1, 0.2))
	require.NoError(t, in.SetFrequency(ctx, instrument.OUT1, 2000))
	require.NoError(t, in.SetTriggerLevel(ctx, 0.25))

	form, err := in.Form(ctx, instrument.OUT1)
	require.NoError(t, err)
	assert.Equal(t, instrument.FormPWM, form)

	duty, err := in.DutyCycle(ctx, instrument.OUT1)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, duty, 1e-6)

	freq, err := in.Frequency(ctx, instrument.OUT1)
	require.NoError(t, err)
	assert.Equal(t, uint32(2000), freq)

	lvl, err := in.TriggerLevel(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, lvl, 1e-6)

	// OUT2 keeps its defaults.
	form, err = in.Form(ctx, instrument.OUT2)
	require.NoError(t, err)
	assert.Equal(t, instrument.FormSine, form)
}

func TestSim_FailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	in := sim.New()
	boom := errors.New("boom")

	in.Fail("acquire.start", boom)
	require.ErrorIs(t, in.Start(ctx), boom)
	assert.False(t, in.IsStarted())

	in.Fail("acquire.start", nil)
	require.NoError(t, in.Start(ctx))
	assert.True(t, in.IsStarted())

	in.FailAll(boom)
	require.ErrorIs(t, in.SetTriggerDelay(ctx, 5), boom)
	in.FailAll(nil)

	dly, err := in.TriggerDelay(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(instrument.SampleCount/2), dly)
}

func TestSim_CanceledContextIsUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := sim.New().Start(ctx)
	assert.True(t, instrument.IsUnreachable(err))
}

func TestSim_ReadAll(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	in := sim.New()

	buf, err := in.ReadAll(ctx, instrument.IN1)
	require.NoError(t, err)
	require.Len(t, buf, instrument.SampleCount)
	assert.Equal(t, make([]float64, instrument.SampleCount), buf, "disabled output reads flat")

	require.NoError(t, in.SetAmplitude(ctx, instrument.OUT1, 2))
	require.NoError(t, in.SetTriggerLevel(ctx, 1))
	require.NoError(t, in.SetTriggerDelay(ctx, 4000))
	require.NoError(t, in.StartOutput(ctx, instrument.OUT1))

	buf, err = in.ReadAll(ctx, instrument.IN1)
	require.NoError(t, err)

	lo, hi := buf[0], buf[0]
	for _, v := range buf {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	assert.InDelta(t, 2, hi, 0.01)
	assert.InDelta(t, -2, lo, 0.01)

	assert.InDelta(t, 1, buf[4000], 0.01, "trigger sample sits on the level")
	assert.Greater(t, buf[4001], buf[3999], "and the signal is rising there")
}

func TestSim_ReadAllClampsToInputRange(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	in := sim.New()

	require.NoError(t, in.SetForm(ctx, instrument.OUT2, instrument.FormDC))
	require.NoError(t, in.SetAmplitude(ctx, instrument.OUT2, 4))
	require.NoError(t, in.SetOffset(ctx, instrument.OUT2, 3))
	require.NoError(t, in.StartOutput(ctx, instrument.OUT2))

	buf, err := in.ReadAll(ctx, instrument.IN2)
	require.NoError(t, err)
	assert.InDelta(t, instrument.MaxVoltage, buf[0], 1e-9)
}
