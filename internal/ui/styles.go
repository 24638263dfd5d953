package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	TrackNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Width(14)
	LockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	ItemStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	SelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	ActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	DraggingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	CollisionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	SnapStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	StatusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingTop(1)
)
