package models

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hibiki-app/hibiki/internal/log"
	"github.com/hibiki-app/hibiki/internal/spotify"
	"github.com/hibiki-app/hibiki/internal/ui/tui/components"
	kb "github.com/hibiki-app/hibiki/internal/ui/tui/keybindings"
	"github.com/hibiki-app/hibiki/internal/ui/tui/styles"
	"github.com/hibiki-app/hibiki/internal/ui/tui/util"
)

// TokenModel displays the token produced by a completed authorization flow
type TokenModel struct {
	width, height int
	token         *spotify.Token
	statusLine    string
}

// NewTokenModel creates a new TokenModel
func NewTokenModel() *TokenModel {
	return &TokenModel{}
}

func (m *TokenModel) Init() tea.Cmd {
	return nil
}

func (m *TokenModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// SetToken installs a freshly exchanged token into the view
func (m *TokenModel) SetToken(token *spotify.Token) {
	m.token = token
	m.statusLine = ""
}

func (m *TokenModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CopyResultMsg:
		if msg.Err != nil {
			log.Warn("Failed to copy access token to clipboard", "error", msg.Err)
			m.statusLine = styles.Error.Render("Copy failed: " + msg.Err.Error())
		} else {
			m.statusLine = styles.Success.Render("Access token copied to clipboard")
		}

	case tea.KeyMsg:
		switch kb.GetActionByKey(msg, kb.ContextToken) {
		case kb.ActionCopyToken:
			if m.token == nil {
				return nil
			}
			accessToken := m.token.AccessToken
			return func() tea.Msg {
				return CopyResultMsg{Err: clipboard.WriteAll(accessToken)}
			}
		case kb.ActionReauth:
			return func() tea.Msg {
				return ReauthMsg{}
			}
		}
	}

	return nil
}

func (m *TokenModel) View() string {
	contentWidth := min(m.width, 120)

	header := styles.Header(contentWidth, "Hibiki")

	var content string
	if m.token == nil {
		content = styles.CenteredText(contentWidth-2, styles.Info.Render("No token available"))
	} else {
		content = m.tokenContent(contentWidth)
	}

	if m.statusLine != "" {
		content += "\n\n" + styles.CenteredText(contentWidth-2, m.statusLine)
	}

	mainContent := styles.ContentBox(contentWidth, content, 1)

	keyBar := components.KeyBindingsBar(contentWidth, []components.KeyBinding{
		{Key: "c", Desc: "copy token"},
		{Key: "r", Desc: "re-authorize"},
		{Key: "ctrl+c", Desc: "quit"},
	})

	combinedContent := lipgloss.JoinVertical(lipgloss.Center, header, mainContent, keyBar)

	return styles.CenteredView(m.width, m.height, combinedContent)
}

func (m *TokenModel) tokenContent(contentWidth int) string {
	valueWidth := contentWidth - 20

	refresh := "(none)"
	if m.token.RefreshToken != "" {
		refresh = util.TruncateString(m.token.RefreshToken, valueWidth)
	}

	rows := []string{
		styles.Success.Render("Authorization complete"),
		"",
		styles.Label.Render("Access token:  ") + styles.Info.Render(util.TruncateString(m.token.AccessToken, valueWidth)),
		styles.Label.Render("Token type:    ") + styles.Info.Render(m.token.TokenType),
		styles.Label.Render("Scopes:        ") + styles.Info.Render(m.token.Scope.String()),
		styles.Label.Render("Refresh token: ") + styles.Info.Render(refresh),
		styles.Label.Render("Expires:       ") + styles.Info.Render(util.FormatExpiry(m.token.ExpiresAt)),
	}

	content := ""
	for i, row := range rows {
		if i > 0 {
			content += "\n"
		}
		content += styles.CenteredText(contentWidth-2, row)
	}
	return content
}
