package tui

import "github.com/charmbracelet/lipgloss"

var (
	brandColor   = lipgloss.Color("#149BA1")
	mutedColor   = lipgloss.Color("#8A8F98")
	errorColor   = lipgloss.Color("#E5484D")
	successColor = lipgloss.Color("#30A46C")
)

// Styles holds the lipgloss styles of the editor
type Styles struct {
	Header   lipgloss.Style
	Caption  lipgloss.Style
	Focused  lipgloss.Style
	Blurred  lipgloss.Style
	Button   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the editor styles
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(brandColor).
			Padding(0, 1),
		Caption: lipgloss.NewStyle().Bold(true),
		Focused: lipgloss.NewStyle().Foreground(brandColor).Bold(true),
		Blurred: lipgloss.NewStyle(),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(brandColor).
			Padding(0, 1),
		Muted:    lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(errorColor),
		Success:  lipgloss.NewStyle().Foreground(successColor).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(mutedColor),
	}
}
