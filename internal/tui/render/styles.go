package render

import (
	"nbterm/internal/notebook"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the resolved lipgloss palette for cell rendering.
type Styles struct {
	Accent    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Banner    lipgloss.Style
	Badge     lipgloss.Style
	Gutter    lipgloss.Style
	Selected  lipgloss.Style
}

// NewStyles derives the style set from a theme descriptor.
func NewStyles(theme notebook.Theme) Styles {
	accent := lipgloss.Color(theme.Accent)
	muted := lipgloss.Color(theme.Muted)
	return Styles{
		Accent:    lipgloss.NewStyle().Foreground(accent),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ErrorColor)),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Highlight)).Bold(true),
		Banner:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		Badge:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		Gutter:    lipgloss.NewStyle().Foreground(muted),
		Selected:  lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}
