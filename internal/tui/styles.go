package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the menu.
type Styles struct {
	Header   lipgloss.Style
	Subtle   lipgloss.Style
	Panel    lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	muted := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(accent).
			Padding(0, 1),
		Subtle: lipgloss.NewStyle().Foreground(muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			MarginTop(1),
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).MarginTop(1),
	}
}
