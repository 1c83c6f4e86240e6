package app

import (
	"fmt"
	"math"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/tui/components/acquire"
	"github.com/alkime/scope/internal/tui/components/generator"
	"github.com/alkime/scope/internal/tui/components/graph"
	"github.com/alkime/scope/internal/tui/components/trigger"
)

// Signal is the application signal union. Every child signal that matters
// surfaces as exactly one of these. Signals are also valid tea messages, so
// the remote API can inject them into the same queue.
type Signal interface {
	isAppSignal()
	fmt.Stringer
}

type (
	AcquireStart struct{}
	AcquireStop  struct{}
	AcquireTick  struct{}

	GeneratorAmplitude struct {
		Source instrument.Source
		Value  float32
	}
	GeneratorOffset struct {
		Source instrument.Source
		Value  float32
	}
	GeneratorFrequency struct {
		Source instrument.Source
		Value  uint32
	}
	GeneratorDutyCycle struct {
		Source instrument.Source
		Value  float32
	}
	GeneratorStart struct{ Source instrument.Source }
	GeneratorStop  struct{ Source instrument.Source }
	GeneratorForm  struct {
		Source instrument.Source
		Form   instrument.Form
	}

	GraphDraw struct{}

	TriggerDelay struct{ Value uint16 }
	TriggerLevel struct{ Value float32 }

	Quit struct{}
)

func (AcquireStart) isAppSignal()       {}
func (AcquireStop) isAppSignal()        {}
func (AcquireTick) isAppSignal()        {}
func (GeneratorAmplitude) isAppSignal() {}
func (GeneratorOffset) isAppSignal()    {}
func (GeneratorFrequency) isAppSignal() {}
func (GeneratorDutyCycle) isAppSignal() {}
func (GeneratorStart) isAppSignal()     {}
func (GeneratorStop) isAppSignal()      {}
func (GeneratorForm) isAppSignal()      {}
func (GraphDraw) isAppSignal()          {}
func (TriggerDelay) isAppSignal()       {}
func (TriggerLevel) isAppSignal()       {}
func (Quit) isAppSignal()               {}

func (AcquireStart) String() string { return "acquire start" }
func (AcquireStop) String() string  { return "acquire stop" }
func (AcquireTick) String() string  { return "acquire read" }
func (GraphDraw) String() string    { return "draw" }
func (Quit) String() string         { return "quit" }

func (s GeneratorAmplitude) String() string {
	return fmt.Sprintf("set %v amplitude %.2f V", s.Source, s.Value)
}

func (s GeneratorOffset) String() string {
	return fmt.Sprintf("set %v offset %+.2f V", s.Source, s.Value)
}

func (s GeneratorFrequency) String() string {
	return fmt.Sprintf("set %v frequency %d Hz", s.Source, s.Value)
}

func (s GeneratorDutyCycle) String() string {
	return fmt.Sprintf("set %v duty cycle %.2f", s.Source, s.Value)
}

func (s GeneratorStart) String() string { return fmt.Sprintf("start %v", s.Source) }
func (s GeneratorStop) String() string  { return fmt.Sprintf("stop %v", s.Source) }

func (s GeneratorForm) String() string {
	return fmt.Sprintf("set %v form %s", s.Source, s.Form.Label())
}

func (s TriggerDelay) String() string { return fmt.Sprintf("set trigger delay %d", s.Value) }
func (s TriggerLevel) String() string { return fmt.Sprintf("set trigger level %+.2f V", s.Value) }

func mapAcquire(s acquire.Signal) (Signal, bool) {
	switch s.(type) {
	case acquire.Start:
		return AcquireStart{}, true
	case acquire.Stop:
		return AcquireStop{}, true
	default:
		return nil, false
	}
}

func mapGenerator(s generator.Signal) (Signal, bool) {
	switch s := s.(type) {
	case generator.Start:
		return GeneratorStart(s), true
	case generator.Stop:
		return GeneratorStop(s), true
	case generator.Amplitude:
		return GeneratorAmplitude(s), true
	case generator.Offset:
		return GeneratorOffset(s), true
	case generator.Frequency:
		return GeneratorFrequency(s), true
	case generator.DutyCycle:
		return GeneratorDutyCycle(s), true
	case generator.Form:
		return GeneratorForm(s), true
	default:
		return nil, false
	}
}

func mapTrigger(s trigger.Signal) (Signal, bool) {
	switch s := s.(type) {
	case trigger.Delay:
		return TriggerDelay(s), true
	case trigger.Level:
		return TriggerLevel(s), true
	default:
		return nil, false
	}
}

// mapGraph maps meter requests by meter name. Unknown meters are dropped.
func mapGraph(s graph.Signal) (Signal, bool) {
	switch s := s.(type) {
	case graph.Draw:
		return GraphDraw{}, true
	case graph.Level:
		switch s.Name {
		case graph.MeterTriggerLevel:
			return TriggerLevel{Value: float32(s.Value)}, true
		case graph.MeterOffset:
			return GeneratorOffset{Source: instrument.OUT1, Value: float32(s.Value)}, true
		case graph.MeterTriggerDelay:
			return TriggerDelay{Value: uint16(math.Round(max(0, min(s.Value, math.MaxUint16))))}, true
		}
	}

	return nil, false
}
