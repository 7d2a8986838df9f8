package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Flagged = lipgloss.Color("#e11d48") // rose
	Plain   = lipgloss.Color("#4f46e5") // indigo
	Muted   = lipgloss.Color("#6b7280")
	Border  = lipgloss.Color("#3f3f46")
)

// Styles holds the lipgloss styles used by the browser.
type Styles struct {
	Title       lipgloss.Style
	Pane        lipgloss.Style
	Card        lipgloss.Style
	CardName    lipgloss.Style
	FlaggedTag  lipgloss.Style
	PlainTag    lipgloss.Style
	Index       lipgloss.Style
	Description lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Border).
			Width(22).
			Padding(0, 1).
			MarginRight(1),
		CardName:    lipgloss.NewStyle().Bold(true),
		FlaggedTag:  lipgloss.NewStyle().Foreground(Flagged),
		PlainTag:    lipgloss.NewStyle().Foreground(Plain),
		Index:       lipgloss.NewStyle().Foreground(Muted),
		Description: lipgloss.NewStyle().Foreground(Muted),
		Status:      lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Error:       lipgloss.NewStyle().Foreground(Flagged).Bold(true),
	}
}
