package config

import (
	"os"
	"strings"
)

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string)
}

var supportedEnvVars = []envVar{
	{
		// Only here for documentation purposes.  Does not override any values in the config as this environment variable
		// points to where the config should be loaded.  It is handled prior to loading the config.
		name:  "HIBIKI_CONFIG_PATH",
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) {}, // Special case, no-op
	},
	{
		// Conventional name used by most Spotify tooling, so credentials can be shared with other apps
		name:  "SPOTIFY_CLIENT_ID",
		desc:  "Sets the Spotify application client ID.  Default: None",
		apply: func(c *Config, s string) { c.Spotify.ClientID = s },
	},
	{
		name:  "SPOTIFY_CLIENT_SECRET",
		desc:  "Sets the Spotify application client secret.  Default: None",
		apply: func(c *Config, s string) { c.Spotify.ClientSecret = s },
	},
	{
		name:  "SPOTIFY_REDIRECT_URI",
		desc:  "Sets the redirect URI registered with the Spotify application.  Default: http://localhost:8000/callback",
		apply: func(c *Config, s string) { c.Spotify.RedirectURI = s },
	},
	{
		name:  "HIBIKI_CONFIG_SPOTIFY_SCOPES",
		desc:  "Space separated list of Spotify scopes to request.  Default: streaming",
		apply: func(c *Config, s string) { c.Spotify.Scopes = strings.Fields(s) },
	},
	{
		name:  "HIBIKI_CONFIG_SPOTIFY_SHOW_DIALOG",
		desc:  "Set to `true` to force the Spotify approval dialog even if the app was already approved.  Default: false",
		apply: func(c *Config, s string) { c.Spotify.ShowDialog = strings.EqualFold(s, "true") },
	},
	{
		name:  "HIBIKI_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) { c.Logging.Level = s },
	},
	{
		name:  "HIBIKI_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) { c.Logging.FilePath = s },
	},
}

func applyEnvVarOverrides(c *Config) {
	for _, envVar := range supportedEnvVars {
		if value := os.Getenv(envVar.name); value != "" {
			envVar.apply(c, value)
		}
	}
}
