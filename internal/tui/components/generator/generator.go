// Package generator is the signal generator page: one collapsible palette
// per output.
package generator

import (
	"fmt"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/tui/bus"
	"github.com/alkime/scope/internal/tui/components/palette"
	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/internal/tui/widget"
	"github.com/alkime/scope/pkg/collections"
	"github.com/alkime/scope/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Signal is emitted when the operator asks to change an output.
type Signal interface{ isGeneratorSignal() }

type (
	Start     struct{ Source instrument.Source }
	Stop      struct{ Source instrument.Source }
	Amplitude struct {
		Source instrument.Source
		Value  float32
	}
	Offset struct {
		Source instrument.Source
		Value  float32
	}
	Frequency struct {
		Source instrument.Source
		Value  uint32
	}
	DutyCycle struct {
		Source instrument.Source
		Value  float32
	}
	Form struct {
		Source instrument.Source
		Form   instrument.Form
	}
)

func (Start) isGeneratorSignal()     {}
func (Stop) isGeneratorSignal()      {}
func (Amplitude) isGeneratorSignal() {}
func (Offset) isGeneratorSignal()    {}
func (Frequency) isGeneratorSignal() {}
func (DutyCycle) isGeneratorSignal() {}
func (Form) isGeneratorSignal()      {}

// Control ranges. The outputs swing at most one volt either way.
var (
	AmplitudeRange = uictl.Range[float32]{Min: 0, Max: 1, Step: 0.01}
	OffsetRange    = uictl.Range[float32]{Min: -1, Max: 1, Step: 0.01}
	FrequencyRange = uictl.Range[uint32]{Min: 1, Max: 62_500_000, Step: 10, Coarse: 100}
	DutyCycleRange = uictl.Range[float32]{Min: 0, Max: 1, Step: 0.01}
)

// row identifies one line of a channel palette.
type row int

const (
	rowHeader row = iota
	rowOutput
	rowForm
	rowAmplitude
	rowOffset
	rowFrequency
	rowDutyCycle
)

// Model holds one channel per generator output.
type Model struct {
	channels []*channel
	children []*bus.Child[Signal, Signal]
	focus    widget.Focus
	keys     widget.KeyMap
}

func New() *Model {
	m := &Model{keys: widget.DefaultKeyMap()}

	for i, src := range instrument.Sources() {
		ch := newChannel(src, i == 0)
		m.channels = append(m.channels, ch)
		m.children = append(m.children, bus.Attach[Signal, Signal](ch, bus.Pass[Signal]))
	}

	return m
}

// focusTarget is one visible, focusable row.
type focusTarget struct {
	ch  int
	row row
}

func (m *Model) targets() []focusTarget {
	var out []focusTarget
	for i, ch := range m.channels {
		for _, r := range ch.rows() {
			out = append(out, focusTarget{ch: i, row: r})
		}
	}

	return out
}

func (m *Model) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	targets := m.targets()

	switch {
	case key.Matches(k, m.keys.Up):
		m.focus.Move(-1, len(targets))
		return nil
	case key.Matches(k, m.keys.Down):
		m.focus.Move(1, len(targets))
		return nil
	}

	t := targets[m.focus.Index(len(targets))]
	m.channels[t.ch].focused = t.row

	return m.children[t.ch].Update(msg, emit)
}

func (m *Model) channel(src instrument.Source) *channel {
	for _, ch := range m.channels {
		if ch.src == src {
			return ch
		}
	}

	return nil
}

// SetOutput stores the confirmed output state. This and the other setters
// ignore unknown sources.
func (m *Model) SetOutput(src instrument.Source, on bool) {
	if ch := m.channel(src); ch != nil {
		ch.output.Set(on)
	}
}

func (m *Model) SetAmplitude(src instrument.Source, v float32) {
	if ch := m.channel(src); ch != nil {
		ch.amplitude.SetValue(v)
	}
}

func (m *Model) SetOffset(src instrument.Source, v float32) {
	if ch := m.channel(src); ch != nil {
		ch.offset.SetValue(v)
	}
}

func (m *Model) SetFrequency(src instrument.Source, v uint32) {
	if ch := m.channel(src); ch != nil {
		ch.frequency.SetValue(v)
	}
}

func (m *Model) SetDutyCycle(src instrument.Source, v float32) {
	if ch := m.channel(src); ch != nil {
		ch.duty.SetValue(v)
	}
}

func (m *Model) SetForm(src instrument.Source, f instrument.Form) {
	if ch := m.channel(src); ch != nil {
		ch.form.SetValue(f)
	}
}

// Settings is the state shown for one output.
type Settings struct {
	Source    instrument.Source `json:"source"`
	Enabled   bool              `json:"enabled"`
	Form      instrument.Form   `json:"form"`
	Amplitude float32           `json:"amplitude"`
	Offset    float32           `json:"offset"`
	Frequency uint32            `json:"frequency"`
	DutyCycle float32           `json:"dutyCycle"`
}

// Settings returns the confirmed state of every output.
func (m *Model) Settings() []Settings {
	return collections.Apply(m.channels, func(ch *channel) Settings {
		return Settings{
			Source:    ch.src,
			Enabled:   ch.output.Read(),
			Form:      ch.form.Value(),
			Amplitude: ch.amplitude.Value(),
			Offset:    ch.offset.Value(),
			Frequency: ch.frequency.Value(),
			DutyCycle: ch.duty.Value(),
		}
	})
}

func (m *Model) View(focused bool, width int) string {
	targets := m.targets()
	curr := targets[m.focus.Index(len(targets))]

	views := make([]string, len(m.channels))
	for i, ch := range m.channels {
		hl := row(-1)
		if focused && curr.ch == i {
			hl = curr.row
		}

		views[i] = ch.view(hl, width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

// channel is the palette of one output.
type channel struct {
	src     instrument.Source
	palette *palette.Model
	fold    *bus.Child[palette.Signal, Signal]
	keys    widget.KeyMap

	output    *widget.Toggle
	form      *widget.Choice[instrument.Form]
	amplitude *widget.Slider[float32]
	offset    *widget.Slider[float32]
	frequency *widget.Slider[uint32]
	duty      *widget.Slider[float32]

	focused row
}

func newChannel(src instrument.Source, expanded bool) *channel {
	volts := widget.WithFormat(func(v float32) string { return fmt.Sprintf("%+.2f V", v) })

	ch := &channel{
		src:       src,
		palette:   palette.New(src.String(), style.ChannelColor(int(src)), expanded),
		keys:      widget.DefaultKeyMap(),
		output:    widget.NewToggle("Output", "on", "off"),
		form:      widget.NewChoice("Form", instrument.Forms(), instrument.Form.Label),
		amplitude: widget.NewSlider("Amplitude", AmplitudeRange, volts),
		offset:    widget.NewSlider("Offset", OffsetRange, volts),
		frequency: widget.NewSlider("Frequency", FrequencyRange,
			widget.WithFormat(formatHertz)),
		duty: widget.NewSlider("Duty cycle", DutyCycleRange,
			widget.WithFormat(func(v float32) string { return fmt.Sprintf("%.0f %%", v*100) })),
	}

	// Folding is local to the palette; nothing reaches the page.
	ch.fold = bus.Attach[palette.Signal, Signal](ch.palette, bus.Drop[palette.Signal, Signal])
	ch.frequency.SetValue(1000)
	ch.amplitude.SetValue(1)
	ch.duty.SetValue(0.5)

	return ch
}

// rows lists the visible rows. The duty cycle only applies to PWM.
func (ch *channel) rows() []row {
	if !ch.palette.Expanded() {
		return []row{rowHeader}
	}

	rows := []row{rowHeader, rowOutput, rowForm, rowAmplitude, rowOffset, rowFrequency}
	if ch.form.Value() == instrument.FormPWM {
		rows = append(rows, rowDutyCycle)
	}

	return rows
}

func (ch *channel) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch ch.focused {
	case rowHeader:
		return ch.fold.Update(msg, emit)
	case rowOutput:
		if key.Matches(k, ch.keys.Activate) {
			if ch.output.Request() {
				emit(Start{Source: ch.src})
			} else {
				emit(Stop{Source: ch.src})
			}
		}
	case rowForm:
		if n, ok := ch.keys.Steps(k, 1); ok {
			emit(Form{Source: ch.src, Form: ch.form.Request(n)})
		}
	case rowAmplitude:
		if v, ok := request(ch.keys, k, ch.amplitude); ok {
			emit(Amplitude{Source: ch.src, Value: v})
		}
	case rowOffset:
		if v, ok := request(ch.keys, k, ch.offset); ok {
			emit(Offset{Source: ch.src, Value: v})
		}
	case rowFrequency:
		if v, ok := request(ch.keys, k, ch.frequency); ok {
			emit(Frequency{Source: ch.src, Value: v})
		}
	case rowDutyCycle:
		if v, ok := request(ch.keys, k, ch.duty); ok {
			emit(DutyCycle{Source: ch.src, Value: v})
		}
	}

	return nil
}

func request[N uictl.Number](keys widget.KeyMap, k tea.KeyMsg, s *widget.Slider[N]) (N, bool) {
	n, ok := keys.Steps(k, s.CoarseSteps())
	if !ok {
		return s.Value(), false
	}

	return s.Request(n)
}

func (ch *channel) view(focused row, width int) string {
	var lines []string

	for _, r := range ch.rows() {
		on := r == focused

		switch r {
		case rowHeader:
			continue
		case rowOutput:
			lines = append(lines, ch.output.View(on, width))
		case rowForm:
			lines = append(lines, ch.form.View(on, width))
		case rowAmplitude:
			lines = append(lines, ch.amplitude.View(on, width))
		case rowOffset:
			lines = append(lines, ch.offset.View(on, width))
		case rowFrequency:
			lines = append(lines, ch.frequency.View(on, width))
		case rowDutyCycle:
			lines = append(lines, ch.duty.View(on, width))
		}
	}

	return ch.palette.View(focused == rowHeader, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatHertz(v uint32) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.3f MHz", float64(v)/1e6)
	case v >= 1_000:
		return fmt.Sprintf("%.2f kHz", float64(v)/1e3)
	default:
		return fmt.Sprintf("%d Hz", v)
	}
}
