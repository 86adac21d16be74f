package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive sessions directory.
func Run(client SessionAPI, pageSize int) error {
	applyColorProfilePreference()

	m := newAppModel(client, pageSize)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
