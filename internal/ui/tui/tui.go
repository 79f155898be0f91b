package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hibiki-app/hibiki/internal/config"
	"github.com/hibiki-app/hibiki/internal/ui/tui/models"
)

func Run(cfg *config.Config) error {
	p := tea.NewProgram(models.NewAppModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
