package models

// View represents a specific UI view in the application
type View string

// Available views in the application
const (
	ViewAuth  View = "auth"
	ViewToken View = "token"
)
