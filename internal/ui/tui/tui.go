// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/skilllint/internal/model"
)

// Styles contains reusable lipgloss styles for the TUI.
var Styles = struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	Normal:   lipgloss.NewStyle(),
}

var severityStyles = map[model.Severity]lipgloss.Style{
	model.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	model.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	model.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	model.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
}

func severityStyle(sev model.Severity) lipgloss.Style {
	if s, ok := severityStyles[sev]; ok {
		return s
	}
	return Styles.Normal
}

// Run starts a BubbleTea program with the given model on the alternate screen.
func Run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p.Run()
}
