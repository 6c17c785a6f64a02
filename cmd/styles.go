package cmd

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("73"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("167"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	styleBranch  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)
