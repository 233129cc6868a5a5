package commands

import "github.com/charmbracelet/lipgloss"

var (
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	readyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
)
