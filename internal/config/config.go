// Package config handles loading and saving application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Host     HostConfig     `yaml:"host"`
	Calendar CalendarConfig `yaml:"calendar"`
	UI       UIConfig       `yaml:"ui"`
}

// HostConfig holds the connection settings for the note-app host API.
type HostConfig struct {
	// BaseURL of the host's local API; empty uses the built-in default.
	BaseURL string `yaml:"base_url,omitempty"`

	// Token authenticates against the host API, if the host requires one.
	Token string `yaml:"token,omitempty"`
}

// CalendarConfig holds the Google Calendar overlay settings.
type CalendarConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CalendarID      string `yaml:"calendar_id,omitempty"` // empty means "primary"
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	TokenFile       string `yaml:"token_file,omitempty"`
}

// UIConfig holds timeline rendering and input settings.
type UIConfig struct {
	DayStartHour   int  `yaml:"day_start_hour"`
	DayEndHour     int  `yaml:"day_end_hour"`
	SlotMinutes    int  `yaml:"slot_minutes"`
	TwentyFourHour bool `yaml:"twenty_four_hour"`
	ShowHeaders    bool `yaml:"show_headers"`
	Mute           bool `yaml:"mute"`
	VimMode        bool `yaml:"vim_mode"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			DayStartHour: 6,
			DayEndHour:   22,
			SlotMinutes:  15,
			ShowHeaders:  true,
			VimMode:      true,
		},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "planview")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// DataDir returns the path to the local data directory, used for the
// collapsed-state store and cached OAuth tokens. Creates it if needed.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "planview")
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the config file.
// If the file doesn't exist, returns a default configuration.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CredentialsPath resolves the Google credentials file, defaulting into
// the config directory when unset.
func (c *Config) CredentialsPath() (string, error) {
	if c.Calendar.CredentialsFile != "" {
		return c.Calendar.CredentialsFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// TokenPath resolves the cached OAuth token file, defaulting into the
// data directory when unset.
func (c *Config) TokenPath() (string, error) {
	if c.Calendar.TokenFile != "" {
		return c.Calendar.TokenFile, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token.json"), nil
}
