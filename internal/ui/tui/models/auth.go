package models

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hibiki-app/hibiki/internal/auth"
	"github.com/hibiki-app/hibiki/internal/config"
	"github.com/hibiki-app/hibiki/internal/log"
	"github.com/hibiki-app/hibiki/internal/spotify"
	"github.com/hibiki-app/hibiki/internal/ui/tui/components"
	kb "github.com/hibiki-app/hibiki/internal/ui/tui/keybindings"
	"github.com/hibiki-app/hibiki/internal/ui/tui/styles"
)

// exchangeTimeout bounds the manual-paste exchange, which has no surrounding flow timeout
const exchangeTimeout = 30 * time.Second

// AuthModel drives the authorization flow view
type AuthModel struct {
	width, height  int
	cfg            *config.Config
	flow           *auth.Flow
	spinner        spinner.Model
	input          textinput.Model
	authInProgress bool
	pasteMode      bool
	authURL        string
	errMsg         string
}

// NewAuthModel creates a new AuthModel
func NewAuthModel(cfg *config.Config) *AuthModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	input := textinput.New()
	input.Placeholder = "Paste the callback URL here..."
	input.Width = 60

	return &AuthModel{
		cfg:     cfg,
		spinner: s,
		input:   input,
	}
}

func (m *AuthModel) Init() tea.Cmd {
	return nil
}

func (m *AuthModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Reset resets the auth model so it is ready to do a fresh login if necessary
func (m *AuthModel) Reset() {
	m.flow = nil
	m.authInProgress = false
	m.pasteMode = false
	m.authURL = ""
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Blur()
}

// SetError surfaces a flow failure on the view
func (m *AuthModel) SetError(msg string) {
	m.authInProgress = false
	m.errMsg = msg
}

func (m *AuthModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.authInProgress {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return cmd
		}

	case tea.KeyMsg:
		if m.pasteMode {
			return m.handlePasteModeKeyMsg(msg)
		}
		switch kb.GetActionByKey(msg, kb.ContextAuth) {
		case kb.ActionLogin:
			if m.authInProgress {
				return nil
			}
			log.Info("Start login..")
			return m.startAuth()
		case kb.ActionPasteCallback:
			if m.prepareFlow() {
				m.pasteMode = true
				return m.input.Focus()
			}
			return nil
		}
	}

	return nil
}

func (m *AuthModel) handlePasteModeKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextPaste) {
	case kb.ActionSubmitCallback:
		raw := m.input.Value()
		if raw == "" {
			return nil
		}
		m.pasteMode = false
		m.input.Blur()
		m.authInProgress = true
		return tea.Batch(m.spinner.Tick, m.completeManually(raw))
	case kb.ActionBack:
		m.pasteMode = false
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// prepareFlow builds the authorize request from config if it hasn't been built yet.
// A fresh flow gets a fresh random state, so it must be built once and reused by both
// the browser path and the manual paste path.
func (m *AuthModel) prepareFlow() bool {
	if m.flow != nil {
		return true
	}

	if err := m.cfg.Validate(); err != nil {
		log.Error("Config validation failed", "error", err)
		m.errMsg = err.Error()
		return false
	}
	scopes, err := m.cfg.ParsedScopes()
	if err != nil {
		m.errMsg = err.Error()
		return false
	}

	a, err := spotify.NewAuth(
		m.cfg.Spotify.ClientID,
		m.cfg.Spotify.ClientSecret,
		spotify.ResponseTypeCode,
		m.cfg.Spotify.RedirectURI,
		scopes,
		m.cfg.Spotify.ShowDialog,
	)
	if err != nil {
		log.Error("Failed to build authorize request", "error", err)
		m.errMsg = err.Error()
		return false
	}

	authURL, err := a.AuthorizeURL()
	if err != nil {
		log.Error("Failed to build authorize URL", "error", err)
		m.errMsg = err.Error()
		return false
	}

	m.flow = auth.NewFlow(a)
	m.authURL = authURL
	m.errMsg = ""
	return true
}

// startAuth begins the browser based authorization flow
func (m *AuthModel) startAuth() tea.Cmd {
	if !m.prepareFlow() {
		return nil
	}
	m.authInProgress = true

	flow := m.flow
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result := flow.DoAuth()

		if result.Error != nil {
			return AuthFailedMsg{Error: result.Error.Error()}
		}

		return AuthCompletedMsg{Token: result.Token}
	})
}

// completeManually finishes the flow using a pasted callback URL
func (m *AuthModel) completeManually(raw string) tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exchangeTimeout)
		defer cancel()

		token, err := flow.CompleteRaw(ctx, raw)
		if err != nil {
			return AuthFailedMsg{Error: err.Error()}
		}

		return AuthCompletedMsg{Token: token}
	}
}

func (m *AuthModel) View() string {
	contentWidth := min(m.width, 120)

	header := styles.Header(contentWidth, "Hibiki")

	var content string
	switch {
	case m.pasteMode:
		content = m.pasteModeContent(contentWidth)
	case m.authInProgress:
		content = m.authInProgressContent(contentWidth)
	default:
		content = m.initialContent(contentWidth)
	}

	if m.errMsg != "" {
		content += "\n\n" + styles.CenteredText(contentWidth-2, styles.Error.Render(m.errMsg))
	}

	// Box the content
	mainContent := styles.ContentBox(contentWidth, content, 1)

	keyBar := components.KeyBindingsBar(contentWidth, m.activeKeyBindings())

	// Join header, content and footer
	combinedContent := lipgloss.JoinVertical(lipgloss.Center, header, mainContent, keyBar)

	// Center everything in the terminal
	return styles.CenteredView(m.width, m.height, combinedContent)
}

func (m *AuthModel) activeKeyBindings() []components.KeyBinding {
	if m.pasteMode {
		return []components.KeyBinding{
			{Key: "enter", Desc: "submit"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	return []components.KeyBinding{
		{Key: "l", Desc: "login"},
		{Key: "p", Desc: "paste callback"},
		{Key: "ctrl+c", Desc: "quit"},
	}
}

func (m *AuthModel) initialContent(contentWidth int) string {
	content := styles.CenteredText(contentWidth-2,
		styles.Info.Render("You need to authorize Hibiki with Spotify before it can request a token."))
	content += "\n\n"

	content += styles.CenteredText(contentWidth-2,
		styles.Info.Render("When you press 'l' a browser will open on the Spotify authorization page")) + "\n"
	content += styles.CenteredText(contentWidth-2,
		styles.Info.Render("After granting access you will be redirected back and the token exchange runs automatically")) + "\n\n"

	content += styles.CenteredText(contentWidth-2,
		styles.Info.Render("If the redirect cannot reach this machine, press 'p' to paste the callback URL instead."))

	return content
}

func (m *AuthModel) authInProgressContent(contentWidth int) string {
	content := styles.CenteredText(contentWidth-2,
		styles.Info.Render(m.spinner.View()+" Waiting for Spotify authorization..."))
	content += "\n\n"

	content += styles.CenteredText(contentWidth-2,
		styles.Info.Render("If your browser didn't open automatically, please visit the following URL:"))
	content += "\n\n"

	content += styles.CenteredText(contentWidth-2, styles.Url.Render(m.authURL))

	return content
}

func (m *AuthModel) pasteModeContent(contentWidth int) string {
	content := styles.CenteredText(contentWidth-2,
		styles.Info.Render("Visit the following URL, grant access, then paste the URL you were redirected to:"))
	content += "\n\n"
	content += styles.CenteredText(contentWidth-2, styles.Url.Render(m.authURL))
	content += "\n\n"
	content += styles.CenteredText(contentWidth-2, m.input.View())

	return content
}
