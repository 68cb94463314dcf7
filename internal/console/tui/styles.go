package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
	err     lipgloss.Style
	notice  lipgloss.Style
	help    lipgloss.Style
	modal   lipgloss.Style
	prompt  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		focused: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 2),
		prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
}
