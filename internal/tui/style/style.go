// Package style defines lipgloss styles and canvas colors for the TUI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// UI styles using lipgloss.
// These are package-level for convenience; lipgloss styles are value types
// and safe for concurrent use.
//
// Variable names intentionally omit "Style" suffix since they're accessed
// via the style package (e.g., style.Title reads better than style.TitleStyle).
var (
	// Title is used for page titles and headers.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Success is used for success messages.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Error is used for error messages.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning is used for warning messages.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Panel is used for the notebook border.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Progress is used for progress indicators.
	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Label is used for control labels (e.g., "Amplitude", "Delay").
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Focused marks the control that receives adjustments.
	Focused = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Muted is used for de-emphasized text (e.g., units).
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Bullet is used for list item markers.
	Bullet = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))

	// Tab and ActiveTab render the notebook page headers.
	Tab = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)
	ActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
)

// Canvas colors used by the graph panels.
var (
	Background     = colorful.Color{R: 0.04, G: 0.05, B: 0.07}
	MainScale      = colorful.Color{R: 0.45, G: 0.47, B: 0.50}
	SecondaryScale = colorful.Color{R: 0.18, G: 0.19, B: 0.21}
	Waveform       = colorful.Color{R: 0.98, G: 0.85, B: 0.10}
	TriggerMarker  = colorful.Color{R: 0.95, G: 0.30, B: 0.25}
	LevelBar       = colorful.Color{R: 0.20, G: 0.55, B: 0.85}
	LevelMarker    = colorful.Color{R: 0.95, G: 0.95, B: 0.95}
)

// ChannelColor returns the header color for a generator output, numbered
// from 1.
func ChannelColor(n int) lipgloss.Color {
	switch n {
	case 1:
		return lipgloss.Color(colorful.Color{R: 0.98, G: 0.85, B: 0.10}.Hex())
	case 2:
		return lipgloss.Color(colorful.Color{R: 0.30, G: 0.80, B: 0.95}.Hex())
	default:
		return lipgloss.Color("245")
	}
}
