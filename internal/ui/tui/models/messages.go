package models

import "github.com/hibiki-app/hibiki/internal/spotify"

// AuthCompletedMsg is sent when the authorization flow produced a token
type AuthCompletedMsg struct {
	Token *spotify.Token
}

// AuthFailedMsg is sent when the authorization flow fails
type AuthFailedMsg struct {
	Error string
}

// ReauthMsg is sent when the user asks to run the authorization flow again
type ReauthMsg struct{}

// CopyResultMsg is sent after attempting to copy the access token to the clipboard
type CopyResultMsg struct {
	Err error
}
