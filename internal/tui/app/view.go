package app

import (
	"fmt"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/tui/style"
	"github.com/charmbracelet/lipgloss"
)

const (
	// notebookWidth is the outer width of the notebook panel, border
	// included.
	notebookWidth = 44
	// footerHeight covers the status and help lines.
	footerHeight = 2
	// overviewHeight is the number of rows of the acquisition overview.
	overviewHeight = 3
)

// resize reallocates the graph surface to whatever the notebook leaves.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	m.graph.Surface().Allocate(width-notebookWidth, height-footerHeight)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	inner := notebookWidth - style.Panel.GetHorizontalFrameSize()
	notebookFocused := !m.graphFocused

	var page string
	switch m.tabs.Current() {
	case pageAcquire:
		page = lipgloss.JoinVertical(lipgloss.Left,
			m.acquire.View(notebookFocused, inner),
			"",
			m.data.Overview(inner, overviewHeight, instrument.MaxVoltage),
		)
	case pageGenerator:
		page = m.generator.View(notebookFocused, inner)
	case pageTrigger:
		page = m.trigger.View(notebookFocused, inner)
	}

	notebook := style.Panel.Width(notebookWidth - style.Panel.GetHorizontalBorderSize()).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.tabs.View(),
		"",
		page,
	))

	graph := m.graph.View()
	if m.graphFocused {
		sel := m.graph.Selected()
		notebook = lipgloss.JoinVertical(lipgloss.Left,
			notebook,
			style.Focused.Render(fmt.Sprintf("meter %s: %.2f", sel.Name(), sel.Value())),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, graph, notebook),
		m.status.View(m.width),
		style.Help.Render(m.help.View(m.keys)),
	)
}
