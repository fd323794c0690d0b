// Package config loads revpanel configuration from the platform config dir.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config represents the revpanel configuration.
type Config struct {
	Provider     string      `json:"provider"`
	Model        string      `json:"model"`
	ContextLines int         `json:"contextLines"`
	CustomPrompt string      `json:"customPrompt,omitempty"`
	Serve        ServeConfig `json:"serve"`
}

// ServeConfig controls the serve command defaults.
type ServeConfig struct {
	Addr string `json:"addr"`
	Port int    `json:"port"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-20250514",
		ContextLines: 10,
		Serve: ServeConfig{
			Addr: "127.0.0.1",
			Port: 6173,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for revpanel.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "revpanel"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "revpanel"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "revpanel"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "revpanel"), nil
	default:
		return filepath.Join(home, ".config", "revpanel"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load returns the defaults overridden by whatever the config file sets.
// A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.ContextLines < 0 {
		cfg.ContextLines = 0
	}
	return cfg, nil
}
