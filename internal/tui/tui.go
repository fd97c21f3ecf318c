package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"dayplan-cli/internal/plan"
	"dayplan-cli/internal/store"
)

func Run(s store.Store, db *store.DB, plans *plan.Registry) error {
	applyColorProfilePreference()
	m := newAppModel(s, db, plans)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
