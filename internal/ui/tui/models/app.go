package models

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hibiki-app/hibiki/internal/config"
	"github.com/hibiki-app/hibiki/internal/log"
)

// AppModel is the main application model that coordinates all child models.  It is the high level wrapper.
type AppModel struct {
	config        *config.Config
	activeView    View
	width, height int

	// Models used for various views
	authModel  *AuthModel
	tokenModel *TokenModel
}

// NewAppModel creates a new instance of the main application model
func NewAppModel(cfg *config.Config) AppModel {
	return AppModel{
		config:     cfg,
		activeView: ViewAuth,
		authModel:  NewAuthModel(cfg),
		tokenModel: NewTokenModel(),
	}
}

func (m AppModel) Init() tea.Cmd {
	log.Info("Initialising Hibiki TUI")
	return m.authModel.Init()
}

// Update handles messages and updates the models as appropriate
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			log.Info("Quit command received.  Shutting down...")
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		log.Debug("Window size changed", "old_width", m.width, "new_width", msg.Width, "old_height", m.height, "new_height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

		// Propagate new window size to all views so they are aware and can render correctly
		m.authModel.Resize(msg.Width, msg.Height)
		m.tokenModel.Resize(msg.Width, msg.Height)
		return m, nil

	case AuthCompletedMsg:
		log.Info("Authorization flow completed", "scopes", msg.Token.Scope.String())
		m.tokenModel.SetToken(msg.Token)
		m.activeView = ViewToken
		return m, nil

	case AuthFailedMsg:
		log.Warn("Authorization flow failed", "error", msg.Error)
		m.authModel.SetError(msg.Error)
		m.activeView = ViewAuth
		return m, nil

	case ReauthMsg:
		log.Info("Re-running authorization flow")
		m.authModel.Reset()
		m.activeView = ViewAuth
		return m, nil
	}

	// Route everything else to the active view
	switch m.activeView {
	case ViewAuth:
		return m, m.authModel.Update(msg)
	case ViewToken:
		return m, m.tokenModel.Update(msg)
	}

	return m, nil
}

// View renders the currently active view
func (m AppModel) View() string {
	switch m.activeView {
	case ViewToken:
		return m.tokenModel.View()
	default:
		return m.authModel.View()
	}
}
