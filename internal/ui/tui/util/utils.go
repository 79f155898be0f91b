package util

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// TruncateString cuts a string to fit within maxWidth visual width
func TruncateString(s string, maxWidth int) string {
	width := 0
	for i, r := range s {
		charWidth := runewidth.RuneWidth(r)
		// Check if adding this rune would exceed maxWidth
		if width+charWidth > maxWidth-3 { // Reserve space for "..."
			return s[:i] + "..."
		}
		width += charWidth
	}
	return s // Return as is if it fits
}

// FormatExpiry formats a token expiry timestamp together with the remaining validity,
// for example "2026-08-31 17:04:05 (in 59m)"
func FormatExpiry(expiresAt time.Time) string {
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return fmt.Sprintf("%s (expired)", expiresAt.Format("2006-01-02 15:04:05"))
	}

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60

	var rel string
	if hours > 0 {
		rel = fmt.Sprintf("in %dh %02dm", hours, minutes)
	} else {
		rel = fmt.Sprintf("in %dm", minutes)
	}
	return fmt.Sprintf("%s (%s)", expiresAt.Format("2006-01-02 15:04:05"), rel)
}
