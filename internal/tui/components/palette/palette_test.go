package palette_test

import (
	"testing"

	"github.com/alkime/scope/internal/tui/components/palette"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestPalette(t *testing.T) {
	t.Parallel()

	m := palette.New("OUT1", lipgloss.Color("1"), true)
	assert.Contains(t, m.View(false, "body"), "body")

	var got []palette.Signal
	emit := func(s palette.Signal) { got = append(got, s) }

	m.Update(tea.KeyMsg{Type: tea.KeyEnter}, emit)
	require.Equal(t, []palette.Signal{palette.Fold{}}, got)
	assert.False(t, m.Expanded())
	assert.NotContains(t, m.View(false, "body"), "body")
	assert.Contains(t, m.View(false, "body"), "OUT1")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, emit)
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, emit)
	assert.Equal(t, []palette.Signal{palette.Fold{}, palette.Expand{}}, got)
	assert.True(t, m.Expanded())
}
