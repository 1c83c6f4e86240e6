package widget

import (
	"strings"

	"github.com/alkime/scope/internal/tui/style"
	"github.com/alkime/scope/pkg/collections"
	tea "github.com/charmbracelet/bubbletea"
)

// NextPageMsg asks the notebook to show the next page.
type NextPageMsg struct{}

// PrevPageMsg asks the notebook to show the previous page.
type PrevPageMsg struct{}

// Tabs tracks which notebook page is shown. Paging wraps around.
type Tabs struct {
	names []string
	curr  int
}

func NewTabs(names ...string) Tabs {
	return Tabs{names: names}
}

func (t Tabs) Update(msg tea.Msg) Tabs {
	switch msg.(type) {
	case NextPageMsg:
		t.curr = collections.Wrap(t.curr+1, len(t.names))
	case PrevPageMsg:
		t.curr = collections.Wrap(t.curr-1, len(t.names))
	}

	return t
}

// Current returns the index of the shown page.
func (t Tabs) Current() int {
	return t.curr
}

// CurrentName returns the name of the shown page.
func (t Tabs) CurrentName() string {
	if len(t.names) == 0 {
		return ""
	}

	return t.names[t.curr]
}

// View renders the page headers.
func (t Tabs) View() string {
	headers := make([]string, len(t.names))
	for i, name := range t.names {
		if i == t.curr {
			headers[i] = style.ActiveTab.Render(name)
			continue
		}

		headers[i] = style.Tab.Render(name)
	}

	return strings.Join(headers, " ")
}
