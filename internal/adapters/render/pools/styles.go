package pools

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	pool       lipgloss.Style
	selected   lipgloss.Style
	detail     lipgloss.Style
	statusOn   lipgloss.Style
	statusOff  lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	fieldKey   lipgloss.Style
	fieldMeta  lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		pool:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		statusOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		statusOff:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		fieldKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		fieldMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
