package cli

import "github.com/charmbracelet/lipgloss"

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED"))

var okStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#10B981"))

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#EF4444"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

var barStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#7C3AED"))
