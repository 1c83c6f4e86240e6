// Package acquire is the acquisition start/stop page.
package acquire

import (
	"fmt"

	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/internal/tui/widget"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Signal is emitted when the operator asks to start or stop acquisition.
type Signal interface{ isAcquireSignal() }

type (
	Start struct{}
	Stop  struct{}
)

func (Start) isAcquireSignal() {}
func (Stop) isAcquireSignal()  {}

// Model shows the acquisition state, a spinner while running and how long
// the current run has lasted.
type Model struct {
	toggle  *widget.Toggle
	spinner spinner.Model
	elapsed stopwatch.Model
	keys    widget.KeyMap
}

func New() *Model {
	return &Model{
		toggle:  widget.NewToggle("Acquisition", "running", "stopped"),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.Progress)),
		elapsed: stopwatch.New(),
		keys:    widget.DefaultKeyMap(),
	}
}

// Started reports the confirmed acquisition state.
func (m *Model) Started() bool {
	return m.toggle.Read()
}

// SetStarted stores the confirmed state and starts or stops the
// activity indicators.
func (m *Model) SetStarted(on bool) tea.Cmd {
	if on == m.toggle.Read() {
		return nil
	}

	m.toggle.Set(on)

	if on {
		return tea.Batch(m.elapsed.Reset(), m.elapsed.Start(), m.spinner.Tick)
	}

	return m.elapsed.Stop()
}

func (m *Model) Update(msg tea.Msg, emit func(Signal)) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Activate) {
			if m.toggle.Request() {
				emit(Start{})
			} else {
				emit(Stop{})
			}
		}

		return nil

	case spinner.TickMsg:
		if !m.toggle.Read() {
			return nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return cmd
	}

	var cmd tea.Cmd
	m.elapsed, cmd = m.elapsed.Update(msg)

	return cmd
}

// View renders the page body.
func (m *Model) View(focused bool, width int) string {
	status := style.Muted.Render("idle")
	if m.toggle.Read() {
		status = fmt.Sprintf("%s %s", m.spinner.View(), style.Subtitle.Render("running "+m.elapsed.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.toggle.View(focused, width),
		"",
		status,
	)
}
