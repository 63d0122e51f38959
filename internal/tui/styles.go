package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("39"))

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	emptyStyle = lipgloss.NewStyle().
			Faint(true).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	helpStyle = lipgloss.NewStyle().
			Faint(true)

	statusColors = map[string]lipgloss.Style{
		"active":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"completed": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"pending":   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"used":      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"expired":   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"failed":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"cancelled": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func statusStyle(status string) lipgloss.Style {
	if style, ok := statusColors[status]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
