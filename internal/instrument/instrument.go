// Package instrument defines the narrow contract the console uses to drive
// an oscilloscope / signal generator.
package instrument

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SampleCount is the length of one acquisition buffer.
const SampleCount = 16384

// Input voltage range shown on the graph, in volts.
const (
	MinVoltage = -5.0
	MaxVoltage = 5.0
)

// ErrUnreachable wraps transport failures: dial errors, timeouts, broken
// connections.
var ErrUnreachable = errors.New("instrument unreachable")

// ProtocolError reports a reply that could not be understood.
type ProtocolError struct {
	Command string
	Reply   string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error on %q (reply %q): %v", e.Command, e.Reply, e.Err)
	}

	return fmt.Sprintf("protocol error on %q (reply %q)", e.Command, e.Reply)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsUnreachable reports whether err came from a transport failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// Source is a generator output.
type Source int

const (
	OUT1 Source = iota + 1
	OUT2
)

// Sources lists every generator output.
func Sources() []Source {
	return []Source{OUT1, OUT2}
}

// ParseSource accepts "OUT1", "out2", "1" or "2".
func ParseSource(s string) (Source, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OUT1", "1":
		return OUT1, nil
	case "OUT2", "2":
		return OUT2, nil
	default:
		return 0, fmt.Errorf("unknown source %q", s)
	}
}

// MarshalText encodes the source by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseSource does.
func (s *Source) UnmarshalText(text []byte) error {
	src, err := ParseSource(string(text))
	if err != nil {
		return err
	}

	*s = src

	return nil
}

func (s Source) String() string {
	switch s {
	case OUT1:
		return "OUT1"
	case OUT2:
		return "OUT2"
	default:
		return fmt.Sprintf("OUT?%d", int(s))
	}
}

// Channel is an acquisition input.
type Channel int

const (
	IN1 Channel = iota + 1
	IN2
)

func (c Channel) String() string {
	switch c {
	case IN1:
		return "IN1"
	case IN2:
		return "IN2"
	default:
		return fmt.Sprintf("IN?%d", int(c))
	}
}

// Form is a generator waveform shape.
type Form string

const (
	FormSine      Form = "SINE"
	FormSquare    Form = "SQUARE"
	FormTriangle  Form = "TRIANGLE"
	FormSawUp     Form = "SAWU"
	FormSawDown   Form = "SAWD"
	FormPWM       Form = "PWM"
	FormDC        Form = "DC"
	FormArbitrary Form = "ARBITRARY"
)

// Forms lists the shapes in the order the generator panel cycles them.
func Forms() []Form {
	return []Form{FormSine, FormSquare, FormTriangle, FormSawUp, FormSawDown, FormPWM, FormDC, FormArbitrary}
}

// ParseForm accepts the instrument's spelling, case-insensitively.
func ParseForm(s string) (Form, error) {
	f := Form(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Forms() {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("unknown waveform %q", s)
}

// Label is the short lower-case name shown in the UI.
func (f Form) Label() string {
	return strings.ToLower(string(f))
}

// Acquirer starts and stops acquisition. IsStarted reflects the last
// successful Start or Stop.
type Acquirer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsStarted() bool
}

// Generator drives the signal generator outputs.
type Generator interface {
	Amplitude(ctx context.Context, src Source) (float32, error)
	SetAmplitude(ctx context.Context, src Source, v float32) error
	Offset(ctx context.Context, src Source) (float32, error)
	SetOffset(ctx context.Context, src Source, v float32) error
	Frequency(ctx context.Context, src Source) (uint32, error)
	SetFrequency(ctx context.Context, src Source, v uint32) error
	DutyCycle(ctx context.Context, src Source) (float32, error)
	SetDutyCycle(ctx context.Context, src Source, v float32) error
	Form(ctx context.Context, src Source) (Form, error)
	SetForm(ctx context.Context, src Source, f Form) error
	OutputEnabled(ctx context.Context, src Source) (bool, error)
	StartOutput(ctx context.Context, src Source) error
	StopOutput(ctx context.Context, src Source) error
}

// Trigger reads and sets the acquisition trigger.
type Trigger interface {
	TriggerDelay(ctx context.Context) (uint16, error)
	SetTriggerDelay(ctx context.Context, v uint16) error
	TriggerLevel(ctx context.Context) (float32, error)
	SetTriggerLevel(ctx context.Context, v float32) error
}

// Reader fetches acquired samples.
type Reader interface {
	// ReadAll returns the full buffer for ch, oldest sample first, in volts.
	ReadAll(ctx context.Context, ch Channel) ([]float64, error)
}

// Instrument is everything the console needs from the hardware.
type Instrument interface {
	Acquirer
	Generator
	Trigger
	Reader
	Close() error
}
