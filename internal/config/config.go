// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/itinera-labs/itinera-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete itinera configuration.
type Config struct {
	// API contains backend connection settings.
	API APIConfig `toml:"api" json:"api"`

	// User contains operator identity settings.
	User UserConfig `toml:"user" json:"user"`

	// Export contains artifact download settings.
	Export ExportConfig `toml:"export" json:"export"`

	// UI contains terminal UI settings.
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL overrides the backend endpoint. Environment variables take
	// precedence; see ResolveAPIBase.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds (0 = default).
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UserConfig contains operator identity configuration.
type UserConfig struct {
	// ID is the user identifier sent with every turn.
	ID string `toml:"id" json:"id"`
}

// ExportConfig contains artifact download configuration.
type ExportConfig struct {
	// OutputDir is where exported trip artifacts are saved.
	// Default: ./exports
	OutputDir string `toml:"output_dir" json:"output_dir"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// ShowSamplePrompts controls the sample-prompt panel on startup.
	ShowSamplePrompts bool `toml:"show_sample_prompts" json:"show_sample_prompts"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "",
			TimeoutSecs: 120,
		},
		User: UserConfig{
			ID: "default_user",
		},
		Export: ExportConfig{
			OutputDir: "./exports",
		},
		UI: UIConfig{
			Theme:             "dark",
			ShowSamplePrompts: true,
		},
	}
}

// =============================================================================
// FILE LOCATIONS
// =============================================================================

// ConfigDir returns the itinera configuration directory (~/.itinera).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".itinera"), nil
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SessionsPath returns the path of the persisted session store.
func SessionsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.json"), nil
}

// LogPath returns the path of the client log file. The TUI owns stdout,
// so diagnostics go to a file.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "itinera.log"), nil
}

// IndexPath returns the path of the message search index database.
func IndexPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "search.db"), nil
}

// HistoryPath returns the path of the interactive chat history file.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, fills defaults, and applies environment
// overrides. A missing file is not an error; defaults are used.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFrom(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFrom decodes a TOML config file into cfg.
func LoadFrom(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the default TOML file atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# itinera configuration\n")
	buf.WriteString("# Generated " + time.Now().Format(time.RFC3339) + "\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// =============================================================================
// ENV OVERRIDES / VALIDATION
// =============================================================================

// ApplyEnvOverrides applies environment variables on top of file values.
func (c *Config) ApplyEnvOverrides() {
	if id := os.Getenv("ITINERA_USER_ID"); id != "" {
		c.User.ID = id
	}
	if dir := os.Getenv("ITINERA_EXPORT_DIR"); dir != "" {
		c.Export.OutputDir = dir
	}
	// API base env vars are handled by ResolveAPIBase so that precedence
	// between the conventional names stays in one place.
}

// SetDefaults fills any zero values with defaults.
func (c *Config) SetDefaults() {
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = 120
	}
	if c.User.ID == "" {
		c.User.ID = "default_user"
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "./exports"
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "dark"
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	if c.API.TimeoutSecs < 0 {
		return fmt.Errorf("api.timeout_secs must not be negative, got %d", c.API.TimeoutSecs)
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}
