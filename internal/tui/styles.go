package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			MarginTop(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			MarginTop(1)

	docStyle = lipgloss.NewStyle().
			Padding(1, 2)
)
