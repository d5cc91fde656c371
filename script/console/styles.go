package console

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#666666")
	errorColor   = lipgloss.Color("#FF4B4B")
	okColor      = lipgloss.Color("#04B575")
	borderColor  = lipgloss.Color("#383838")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	transcriptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(errorColor)
	okStyle     = lipgloss.NewStyle().Foreground(okColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(errorColor).
			Padding(1, 2)
)
