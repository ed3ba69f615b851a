package cmd

import "github.com/charmbracelet/lipgloss"

// Styles for the inspection commands. The color profile is set by
// applyColorMode before any command runs.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	hashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)
