package tui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Error    lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Selected lipgloss.Color
}{
	Primary:  lipgloss.Color("#6C5CE7"), // Purple
	Muted:    lipgloss.Color("#636E72"), // Gray
	Error:    lipgloss.Color("#D63031"), // Red
	Success:  lipgloss.Color("#00B894"), // Green
	Warning:  lipgloss.Color("#FDCB6E"), // Yellow
	Selected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
}

// Styles contains all the lipgloss styles for the review TUI.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	ItemNormal   lipgloss.Style
	ItemSelected lipgloss.Style
	ItemAccepted lipgloss.Style
	ItemRejected lipgloss.Style
	DetailLabel  lipgloss.Style
	DetailText   lipgloss.Style
	Suggestion   lipgloss.Style
	Footer       lipgloss.Style
	ErrorMsg     lipgloss.Style
}

// DefaultStyles returns the default styles for the review TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		ItemNormal: lipgloss.NewStyle().
			PaddingLeft(2),

		ItemSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Selected),

		ItemAccepted: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(Colors.Success),

		ItemRejected: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(Colors.Error),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),

		DetailText: lipgloss.NewStyle().
			MarginTop(1),

		Suggestion: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}
