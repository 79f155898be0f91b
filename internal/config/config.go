package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/hibiki-app/hibiki/internal/spotify"
)

// Config represents the application configuration
type Config struct {
	Spotify SpotifyConfig `yaml:"spotify,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// SpotifyConfig contains the Spotify application credentials and flow settings
type SpotifyConfig struct {
	ClientID     string   `yaml:"client_id,omitempty"`
	ClientSecret string   `yaml:"client_secret,omitempty"`
	RedirectURI  string   `yaml:"redirect_uri,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
	ShowDialog   bool     `yaml:"show_dialog,omitempty"`
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
}

// Load builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Apply 'dynamic' properties.  Dynamic properties are those that are determined at runtime, for example log file location which is different per OS.
// 4. Load & merge the config file, overwriting any defaults with user-specified values
// 5. Apply environment variable overrides
func Load() (*Config, error) {
	// 1. Start with base defaults
	cfg := createBaseDefaultConfig()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to determine config file path: %w", err)
	}

	// 2. If no config file exists on disk, then write a default one
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// If there is an error saving the default config, then still let the application startup using the defaults.
		_ = save(cfg, configPath)
	}

	// 3. Apply dynamic defaults if necessary
	applyDynamicDefaults(cfg)

	// 4. Load the config from disk and merge it into the base defaults
	fileConfig, err := loadFromDisk(configPath)
	if err != nil {
		return nil, err
	}
	// Overrides the config with any values coming from the loaded file
	if err = mergo.Merge(cfg, fileConfig, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging config loaded from disk: %w", err)
	}

	// 5. Apply the environment variable overrides which take precedence
	applyEnvVarOverrides(cfg)

	return cfg, nil
}

// Validate checks the Spotify section is usable before an auth flow is started.
// Scope strings are resolved against the known scope set so typos are caught here
// with a suggestion rather than as an opaque rejection from the accounts service.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" {
		return fmt.Errorf("spotify.client_id is not configured")
	}
	if c.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify.client_secret is not configured")
	}
	u, err := url.Parse(c.Spotify.RedirectURI)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("spotify.redirect_uri %q is not an absolute URI", c.Spotify.RedirectURI)
	}
	if _, err := c.ParsedScopes(); err != nil {
		return err
	}
	return nil
}

// ParsedScopes resolves the configured scope strings into typed scopes
func (c *Config) ParsedScopes() ([]spotify.Scope, error) {
	scopes := make([]spotify.Scope, 0, len(c.Spotify.Scopes))
	for _, raw := range c.Spotify.Scopes {
		scope, err := spotify.ParseScope(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid spotify.scopes entry: %w", err)
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

// applyDynamicDefaults sets runtime-determined default values for any properties that haven't been explicitly configured.
// Unlike static defaults, these values might change between runs based on the environment or system configuration.
func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = defaultLogFilePath()
}

// loadFromDisk loads the YAML config from disk and returns the unmarshalled Config
func loadFromDisk(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func save(cfg *Config, configPath string) error {
	// Create config dir if not exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// getConfigPath returns the path to the config file.  Uses the environment variable override if present, else tries
// to use OS config location defaults.
func getConfigPath() (string, error) {
	configPath := os.Getenv("HIBIKI_CONFIG_PATH")
	if configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	hibikiConfigDir := filepath.Join(configDir, "hibiki")
	return filepath.Join(hibikiConfigDir, "config.yaml"), nil
}

// createBaseDefaultConfig creates a config with all default values
func createBaseDefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://localhost:8000/callback",
			Scopes:      []string{string(spotify.ScopeStreaming)},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultLogFilePath returns the path to the log file.  Tries to use expected OS location defaults.
func defaultLogFilePath() string {
	var basePath string
	homedir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to logging in the current directory if home directory cannot be determined
		return filepath.Join(".", "hibiki.log")
	}

	switch runtime.GOOS {
	case "windows":
		// Windows:  %LOCALAPPDATA%\hibiki\logs
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, "hibiki", "logs")
		} else {
			basePath = filepath.Join(homedir, "AppData", "local", "hibiki", "logs")
		}
	case "darwin":
		// macOS:  ~/Library/Logs/hibiki
		basePath = filepath.Join(homedir, "Library", "Logs", "hibiki")
	default:
		// Linux/BSD:  XDG_STATE_HOME
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, "hibiki", "logs")
		} else {
			basePath = filepath.Join(homedir, ".local", "state", "hibiki", "logs")
		}
	}

	err = os.MkdirAll(basePath, 0700)
	if err != nil {
		// If we failed to create the directory, fallback to logging in the current directory
		return filepath.Join(".", "hibiki.log")
	}
	return filepath.Join(basePath, "hibiki.log")
}
