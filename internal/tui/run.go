package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run wraps the Bubble Tea entry point. It blocks until the user quits or
// the program fails.
func Run(opts Options) error {
	m := New(opts)
	programOptions := []tea.ProgramOption{tea.WithAltScreen()}
	if m.feature("mouse") {
		programOptions = append(programOptions, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(m, programOptions...)
	_, err := program.Run()
	return err
}
