// Package sim is an in-memory instrument. OUT1 is looped back to IN1 and OUT2
// to IN2, so acquisitions show whatever the generator produces, aligned on the
// trigger.
package sim

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/alkime/scope/internal/instrument"
)

// SampleRate is the simulated acquisition rate in samples per second.
const SampleRate = 125e6 / 32

var _ instrument.Instrument = (*Instrument)(nil)

type output struct {
	amplitude float32
	offset    float32
	frequency uint32
	duty      float32
	form      instrument.Form
	enabled   bool
}

// Instrument is a simulated instrument. It is safe for concurrent use.
type Instrument struct {
	mu       sync.Mutex
	started  bool
	outputs  map[instrument.Source]*output
	delay    uint16
	level    float32
	calls    []string
	failures map[string]error
	failAll  error
}

// New returns a simulator with the instrument's power-on defaults.
func New() *Instrument {
	in := &Instrument{
		outputs:  make(map[instrument.Source]*output),
		delay:    instrument.SampleCount / 2,
		failures: make(map[string]error),
	}

	for _, src := range instrument.Sources() {
		in.outputs[src] = &output{
			amplitude: 1,
			frequency: 1000,
			duty:      0.5,
			form:      instrument.FormSine,
		}
	}

	return in
}

// Fail makes every call whose log entry starts with op return err. A nil err
// clears the failure.
func (in *Instrument) Fail(op string, err error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err == nil {
		delete(in.failures, op)
		return
	}

	in.failures[op] = err
}

// FailAll makes every call return err until cleared with nil.
func (in *Instrument) FailAll(err error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.failAll = err
}

// Calls returns the log of attempted calls, oldest first.
func (in *Instrument) Calls() []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	return append([]string(nil), in.calls...)
}

// ResetCalls clears the call log.
func (in *Instrument) ResetCalls() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.calls = nil
}

// record logs a call and returns the injected failure for it, if any.
// Callers hold mu.
func (in *Instrument) record(ctx context.Context, format string, args ...any) error {
	entry := fmt.Sprintf(format, args...)
	in.calls = append(in.calls, entry)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", instrument.ErrUnreachable, err)
	}

	if in.failAll != nil {
		return in.failAll
	}

	for op, err := range in.failures {
		if strings.HasPrefix(entry, op) {
			return err
		}
	}

	return nil
}

func (in *Instrument) Close() error {
	return nil
}

func (in *Instrument) Start(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "acquire.start"); err != nil {
		return err
	}

	in.started = true

	return nil
}

func (in *Instrument) Stop(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "acquire.stop"); err != nil {
		return err
	}

	in.started = false

	return nil
}

func (in *Instrument) IsStarted() bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.started
}

func (in *Instrument) out(src instrument.Source) (*output, error) {
	o, ok := in.outputs[src]
	if !ok {
		return nil, fmt.Errorf("unknown source %v", src)
	}

	return o, nil
}

// get runs read against the output after logging "generator.<name> <src>".
func get[T any](ctx context.Context, in *Instrument, name string, src instrument.Source, read func(*output) T) (T, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	var zero T

	if err := in.record(ctx, "generator.%s %v", name, src); err != nil {
		return zero, err
	}

	o, err := in.out(src)
	if err != nil {
		return zero, err
	}

	return read(o), nil
}

// set runs write against the output after logging
// "generator.set-<name> <src> <v>".
func set[T any](ctx context.Context, in *Instrument, name string, src instrument.Source, v T, write func(*output, T)) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "generator.set-%s %v %v", name, src, v); err != nil {
		return err
	}

	o, err := in.out(src)
	if err != nil {
		return err
	}

	write(o, v)

	return nil
}

func (in *Instrument) Amplitude(ctx context.Context, src instrument.Source) (float32, error) {
	return get(ctx, in, "amplitude", src, func(o *output) float32 { return o.amplitude })
}

func (in *Instrument) SetAmplitude(ctx context.Context, src instrument.Source, v float32) error {
	return set(ctx, in, "amplitude", src, v, func(o *output, v float32) { o.amplitude = v })
}

func (in *Instrument) Offset(ctx context.Context, src instrument.Source) (float32, error) {
	return get(ctx, in, "offset", src, func(o *output) float32 { return o.offset })
}

func (in *Instrument) SetOffset(ctx context.Context, src instrument.Source, v float32) error {
	return set(ctx, in, "offset", src, v, func(o *output, v float32) { o.offset = v })
}

func (in *Instrument) Frequency(ctx context.Context, src instrument.Source) (uint32, error) {
	return get(ctx, in, "frequency", src, func(o *output) uint32 { return o.frequency })
}

func (in *Instrument) SetFrequency(ctx context.Context, src instrument.Source, v uint32) error {
	return set(ctx, in, "frequency", src, v, func(o *output, v uint32) { o.frequency = v })
}

func (in *Instrument) DutyCycle(ctx context.Context, src instrument.Source) (float32, error) {
	return get(ctx, in, "duty-cycle", src, func(o *output) float32 { return o.duty })
}

func (in *Instrument) SetDutyCycle(ctx context.Context, src instrument.Source, v float32) error {
	return set(ctx, in, "duty-cycle", src, v, func(o *output, v float32) { o.duty = v })
}

func (in *Instrument) Form(ctx context.Context, src instrument.Source) (instrument.Form, error) {
	return get(ctx, in, "form", src, func(o *output) instrument.Form { return o.form })
}

func (in *Instrument) SetForm(ctx context.Context, src instrument.Source, f instrument.Form) error {
	return set(ctx, in, "form", src, f, func(o *output, f instrument.Form) { o.form = f })
}

func (in *Instrument) OutputEnabled(ctx context.Context, src instrument.Source) (bool, error) {
	return get(ctx, in, "output", src, func(o *output) bool { return o.enabled })
}

func (in *Instrument) StartOutput(ctx context.Context, src instrument.Source) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "generator.start %v", src); err != nil {
		return err
	}

	o, err := in.out(src)
	if err != nil {
		return err
	}

	o.enabled = true

	return nil
}

func (in *Instrument) StopOutput(ctx context.Context, src instrument.Source) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "generator.stop %v", src); err != nil {
		return err
	}

	o, err := in.out(src)
	if err != nil {
		return err
	}

	o.enabled = false

	return nil
}

func (in *Instrument) TriggerDelay(ctx context.Context) (uint16, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "trigger.delay"); err != nil {
		return 0, err
	}

	return in.delay, nil
}

func (in *Instrument) SetTriggerDelay(ctx context.Context, v uint16) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "trigger.set-delay %d", v); err != nil {
		return err
	}

	in.delay = v

	return nil
}

func (in *Instrument) TriggerLevel(ctx context.Context) (float32, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "trigger.level"); err != nil {
		return 0, err
	}

	return in.level, nil
}

func (in *Instrument) SetTriggerLevel(ctx context.Context, v float32) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "trigger.set-level %v", v); err != nil {
		return err
	}

	in.level = v

	return nil
}

// ReadAll synthesizes one buffer from the output looped back to ch.
func (in *Instrument) ReadAll(ctx context.Context, ch instrument.Channel) ([]float64, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.record(ctx, "acquire.read %v", ch); err != nil {
		return nil, err
	}

	buf := make([]float64, instrument.SampleCount)

	o, ok := in.outputs[instrument.Source(ch)]
	if !ok || !o.enabled {
		return buf, nil
	}

	amp := float64(o.amplitude)
	off := float64(o.offset)
	periods := float64(o.frequency) / SampleRate
	phase0 := triggerPhase(o, float64(in.level)) - periods*float64(in.delay)

	for i := range buf {
		p := phase0 + periods*float64(i)
		buf[i] = clampVolts(off + amp*shape(o.form, p-math.Floor(p), float64(o.duty)))
	}

	return buf, nil
}

// triggerPhase returns the phase, in periods, at which the output rises
// through level.
func triggerPhase(o *output, level float64) float64 {
	if o.amplitude == 0 || o.form != instrument.FormSine {
		return 0
	}

	r := (level - float64(o.offset)) / float64(o.amplitude)
	r = math.Max(-1, math.Min(1, r))

	return math.Asin(r) / (2 * math.Pi)
}

// shape evaluates a unit waveform at phase p in [0, 1).
func shape(f instrument.Form, p, duty float64) float64 {
	switch f {
	case instrument.FormSine:
		return math.Sin(2 * math.Pi * p)
	case instrument.FormSquare:
		if p < 0.5 {
			return 1
		}

		return -1
	case instrument.FormPWM:
		if p < duty {
			return 1
		}

		return -1
	case instrument.FormTriangle:
		if p < 0.5 {
			return 4*p - 1
		}

		return 3 - 4*p
	case instrument.FormSawUp:
		return 2*p - 1
	case instrument.FormSawDown:
		return 1 - 2*p
	case instrument.FormDC:
		return 1
	default:
		return 0
	}
}

func clampVolts(v float64) float64 {
	return math.Max(instrument.MinVoltage, math.Min(instrument.MaxVoltage, v))
}
