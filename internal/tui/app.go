package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive program and blocks until quit.
func Run(opts Options) error {
	if opts.Backend == nil {
		return fmt.Errorf("tui: no backend configured")
	}
	if opts.Session == nil {
		return fmt.Errorf("tui: no session configured")
	}
	setupColorProfile()

	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
