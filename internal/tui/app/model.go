// Package app is the root of the console. It owns the instrument, the scales
// and the data buffer, and it is the only place application signals are
// turned into instrument calls.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/bus"
	"github.com/alkime/scope/internal/tui/components/acquire"
	"github.com/alkime/scope/internal/tui/components/data"
	"github.com/alkime/scope/internal/tui/components/generator"
	"github.com/alkime/scope/internal/tui/components/graph"
	"github.com/alkime/scope/internal/tui/components/status"
	"github.com/alkime/scope/internal/tui/components/trigger"
	"github.com/alkime/scope/internal/tui/render"
	"github.com/alkime/scope/internal/tui/widget"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Notebook pages, in tab order.
const (
	pageAcquire = iota
	pageGenerator
	pageTrigger
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultTimeout      = 2 * time.Second
)

// Options configures the console.
type Options struct {
	// Addr is shown on the status line.
	Addr         string
	TickInterval time.Duration
	// Timeout bounds each instrument call.
	Timeout time.Duration
	Logger  *slog.Logger
	// Publish, when set, receives a snapshot after every processed batch
	// of signals.
	Publish func(Snapshot)
}

// tickMsg fires the next acquisition tick.
type tickMsg struct{}

// initViewMsg asks the root to seed the controls from the instrument.
type initViewMsg struct{}

// Model is the root coordinator.
type Model struct {
	inst   instrument.Instrument
	opts   Options
	log    *slog.Logger
	scales scales.Scales
	data   data.Buffer
	queue  bus.Queue[Signal]

	acquire   *acquire.Model
	generator *generator.Model
	trigger   *trigger.Model
	graph     *graph.Model
	status    *status.Model

	acquireC   *bus.Child[acquire.Signal, Signal]
	generatorC *bus.Child[generator.Signal, Signal]
	triggerC   *bus.Child[trigger.Signal, Signal]
	graphC     *bus.Child[graph.Signal, Signal]

	pipeline *render.Pipeline
	tabs     widget.Tabs
	help     help.Model
	keys     KeyMap

	width, height int
	graphFocused  bool
	tickPending   bool
	quitting      bool
}

// New builds the console around inst. It fails only when the instrument
// ranges do not form valid scales.
func New(inst instrument.Instrument, opts Options) (*Model, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s, err := graph.Scales()
	if err != nil {
		return nil, fmt.Errorf("failed to build scales: %w", err)
	}

	m := &Model{
		inst:      inst,
		opts:      opts,
		log:       opts.Logger,
		scales:    s,
		acquire:   acquire.New(),
		generator: generator.New(),
		trigger:   trigger.New(),
		graph:     graph.New(opts.TickInterval),
		status:    status.New(opts.Addr),
		tabs:      widget.NewTabs("Acquire", "Generator", "Trigger"),
		help:      help.New(),
	}

	m.acquireC = bus.Attach[acquire.Signal, Signal](m.acquire, mapAcquire)
	m.generatorC = bus.Attach[generator.Signal, Signal](m.generator, mapGenerator)
	m.triggerC = bus.Attach[trigger.Signal, Signal](m.trigger, mapTrigger)
	m.graphC = bus.Attach[graph.Signal, Signal](m.graph, mapGraph)
	m.keys = DefaultKeyMap(m.graph.NextMeterKey())

	// Paint order: grid, meters (left, right, top), trigger marker, then
	// the trace while acquiring.
	layers := []render.Panel{m.graph}
	for _, meter := range m.graph.Meters() {
		layers = append(layers, meter)
	}
	layers = append(layers, m.trigger)

	m.pipeline = render.New(&m.data, m.acquire.Started, layers...)

	return m, nil
}

// Init seeds the controls from the instrument.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return initViewMsg{}
	}
}

// Update feeds toolkit messages to the components, then drains the signal
// queue. Signals emitted while draining are handled in the same pass, after
// everything already queued.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.queue.Push(GraphDraw{})

	case initViewMsg:
		cmds = append(cmds, m.initView())

	case tickMsg:
		m.tickPending = false
		m.queue.Push(AcquireTick{})

	case Signal:
		m.queue.Push(msg)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		cmds = append(cmds,
			m.acquireC.Update(msg, m.queue.Push),
			m.graphC.Update(msg, m.queue.Push),
		)
	}

	m.queue.Drain(func(s Signal) {
		cmds = append(cmds, m.dispatch(s))
	})

	m.publish()

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.queue.Push(Quit{})
		return nil
	case key.Matches(msg, m.keys.NextPage):
		m.tabs = m.tabs.Update(widget.NextPageMsg{})
		return nil
	case key.Matches(msg, m.keys.PrevPage):
		m.tabs = m.tabs.Update(widget.PrevPageMsg{})
		return nil
	case key.Matches(msg, m.keys.Focus):
		m.graphFocused = !m.graphFocused
		m.keys.graphFocused = m.graphFocused

		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if m.graphFocused {
		return m.graphC.Update(msg, m.queue.Push)
	}

	switch m.tabs.Current() {
	case pageAcquire:
		return m.acquireC.Update(msg, m.queue.Push)
	case pageGenerator:
		return m.generatorC.Update(msg, m.queue.Push)
	case pageTrigger:
		return m.triggerC.Update(msg, m.queue.Push)
	}

	return nil
}

// call runs one instrument operation with its own deadline.
func (m *Model) call(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.Timeout)
	defer cancel()

	return fn(ctx)
}

// fail logs and reports a failed signal. The caller leaves its model as it
// was.
func (m *Model) fail(s Signal, err error) {
	m.log.Error("instrument command failed", "signal", s.String(), "error", err)
	m.status.Report(s.String(), err)
}

// done reports a successful user-visible signal.
func (m *Model) done(s Signal) {
	m.log.Debug("instrument command applied", "signal", s.String())
	m.status.Report(s.String(), nil)
}

// dispatch is the single update function for application signals.
//
//nolint:cyclop,funlen // one case per signal
func (m *Model) dispatch(sig Signal) tea.Cmd {
	if m.quitting {
		return nil
	}

	switch s := sig.(type) {
	case AcquireStart:
		if err := m.call(m.inst.Start); err != nil {
			m.fail(s, err)
			return nil
		}

		m.done(s)

		return tea.Batch(m.acquire.SetStarted(true), m.scheduleTick())

	case AcquireStop:
		if err := m.call(m.inst.Stop); err != nil {
			m.fail(s, err)
			return nil
		}

		m.done(s)
		cmd := m.acquire.SetStarted(false)
		m.paint()

		return cmd

	case AcquireTick:
		return m.tick(s)

	case GeneratorAmplitude:
		err := m.call(func(ctx context.Context) error { return m.inst.SetAmplitude(ctx, s.Source, s.Value) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetAmplitude(s.Source, s.Value)
		m.done(s)

	case GeneratorOffset:
		err := m.call(func(ctx context.Context) error { return m.inst.SetOffset(ctx, s.Source, s.Value) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetOffset(s.Source, s.Value)
		if s.Source == instrument.OUT1 {
			m.graph.Meter(graph.MeterOffset).SetValue(float64(s.Value))
			m.paint()
		}
		m.done(s)

	case GeneratorFrequency:
		err := m.call(func(ctx context.Context) error { return m.inst.SetFrequency(ctx, s.Source, s.Value) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetFrequency(s.Source, s.Value)
		m.done(s)

	case GeneratorDutyCycle:
		err := m.call(func(ctx context.Context) error { return m.inst.SetDutyCycle(ctx, s.Source, s.Value) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetDutyCycle(s.Source, s.Value)
		m.done(s)

	case GeneratorForm:
		err := m.call(func(ctx context.Context) error { return m.inst.SetForm(ctx, s.Source, s.Form) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetForm(s.Source, s.Form)
		m.done(s)

	case GeneratorStart:
		err := m.call(func(ctx context.Context) error { return m.inst.StartOutput(ctx, s.Source) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetOutput(s.Source, true)
		m.done(s)

	case GeneratorStop:
		err := m.call(func(ctx context.Context) error { return m.inst.StopOutput(ctx, s.Source) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.generator.SetOutput(s.Source, false)
		m.done(s)

	case TriggerDelay:
		err := m.call(func(ctx context.Context) error { return m.inst.SetTriggerDelay(ctx, s.Value) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.trigger.SetDelay(s.Value)
		m.graph.Meter(graph.MeterTriggerDelay).SetValue(float64(s.Value))
		m.done(s)
		m.paint()

	case TriggerLevel:
		err := m.call(func(ctx context.Context) error { return m.inst.SetTriggerLevel(ctx, s.Value) })
		if err != nil {
			m.fail(s, err)
			return nil
		}

		m.trigger.SetLevel(s.Value)
		m.graph.Meter(graph.MeterTriggerLevel).SetValue(float64(s.Value))
		m.done(s)
		m.paint()

	case GraphDraw:
		m.paint()

	case Quit:
		return m.quit()
	}

	return nil
}

// tick reads a fresh buffer, updates the meters and paints. The tick chain
// keeps running across read failures so a transient outage recovers.
func (m *Model) tick(s AcquireTick) tea.Cmd {
	if !m.acquire.Started() {
		return nil
	}

	var samples []float64

	err := m.call(func(ctx context.Context) error {
		var err error
		samples, err = m.inst.ReadAll(ctx, instrument.IN1)

		return err
	})
	if err != nil {
		m.fail(s, err)
		return m.scheduleTick()
	}

	m.data.Replace(samples)

	if pos, neg, ok := m.data.Peaks(); ok {
		m.graph.Meter(graph.MeterTriggerLevel).SetReading(pos)
		m.graph.Meter(graph.MeterOffset).SetReading(neg)
	}

	for _, meter := range m.graph.Meters() {
		meter.Step()
	}

	m.paint()

	return m.scheduleTick()
}

// scheduleTick arms the next acquisition tick unless one is pending.
func (m *Model) scheduleTick() tea.Cmd {
	if m.tickPending {
		return nil
	}

	m.tickPending = true

	return tea.Tick(m.opts.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// quit stops acquisition and both outputs, in that order, before the
// program exits. Failures are logged and do not stop the sequence.
func (m *Model) quit() tea.Cmd {
	steps := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{name: "acquire stop", fn: m.inst.Stop},
		{name: "stop OUT1", fn: func(ctx context.Context) error { return m.inst.StopOutput(ctx, instrument.OUT1) }},
		{name: "stop OUT2", fn: func(ctx context.Context) error { return m.inst.StopOutput(ctx, instrument.OUT2) }},
	}

	for _, step := range steps {
		if err := m.call(step.fn); err != nil {
			m.log.Error("shutdown step failed", "step", step.name, "error", err)
		}
	}

	m.quitting = true
	m.log.Info("console closed")

	return tea.Quit
}

// paint renders one frame. A degenerate surface skips the frame silently.
func (m *Model) paint() {
	if _, err := m.pipeline.Frame(m.graph.Surface(), m.scales); err != nil {
		m.log.Error("paint failed", "error", err)
	}
}

// initView reads the instrument state and seeds the controls. Each failed
// read is reported; the control keeps its default.
//
//nolint:funlen // one read per control
func (m *Model) initView() tea.Cmd {
	read := func(op string, fn func(ctx context.Context) error) {
		if err := m.call(fn); err != nil {
			m.log.Error("initial read failed", "read", op, "error", err)
			m.status.Report("read "+op, err)
		}
	}

	for _, src := range instrument.Sources() {
		read(src.String()+" amplitude", func(ctx context.Context) error {
			v, err := m.inst.Amplitude(ctx, src)
			if err == nil {
				m.generator.SetAmplitude(src, v)
			}

			return err
		})
		read(src.String()+" offset", func(ctx context.Context) error {
			v, err := m.inst.Offset(ctx, src)
			if err == nil {
				m.generator.SetOffset(src, v)
				if src == instrument.OUT1 {
					m.graph.Meter(graph.MeterOffset).SetValue(float64(v))
				}
			}

			return err
		})
		read(src.String()+" frequency", func(ctx context.Context) error {
			v, err := m.inst.Frequency(ctx, src)
			if err == nil {
				m.generator.SetFrequency(src, v)
			}

			return err
		})
		read(src.String()+" duty cycle", func(ctx context.Context) error {
			v, err := m.inst.DutyCycle(ctx, src)
			if err == nil {
				m.generator.SetDutyCycle(src, v)
			}

			return err
		})
		read(src.String()+" form", func(ctx context.Context) error {
			v, err := m.inst.Form(ctx, src)
			if err == nil {
				m.generator.SetForm(src, v)
			}

			return err
		})
		read(src.String()+" output", func(ctx context.Context) error {
			v, err := m.inst.OutputEnabled(ctx, src)
			if err == nil {
				m.generator.SetOutput(src, v)
			}

			return err
		})
	}

	read("trigger delay", func(ctx context.Context) error {
		v, err := m.inst.TriggerDelay(ctx)
		if err == nil {
			m.trigger.SetDelay(v)
			m.graph.Meter(graph.MeterTriggerDelay).SetValue(float64(v))
		}

		return err
	})
	read("trigger level", func(ctx context.Context) error {
		v, err := m.inst.TriggerLevel(ctx)
		if err == nil {
			m.trigger.SetLevel(v)
			m.graph.Meter(graph.MeterTriggerLevel).SetValue(float64(v))
		}

		return err
	})

	m.queue.Push(GraphDraw{})

	if !m.inst.IsStarted() {
		return nil
	}

	return tea.Batch(m.acquire.SetStarted(true), m.scheduleTick())
}

// Data returns the buffer the renderer reads.
func (m *Model) Data() []float64 {
	return m.data.Samples()
}

// Err returns the failure shown on the status line, if any.
func (m *Model) Err() error {
	return m.status.Err()
}
