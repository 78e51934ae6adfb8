// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "playlistify"

// Config holds all application configuration.
type Config struct {
	Player      string  `toml:"player"`
	DataDir     string  `toml:"data_dir"`
	History     bool    `toml:"history"`
	Timeout     int     `toml:"timeout"` // Seconds
	Concurrency int     `toml:"concurrency"`
	RateLimit   float64 `toml:"rate_limit"` // Requests per second
	UserAgent   string  `toml:"user_agent"`
	LogLevel    string  `toml:"log_level"`
	Debug       bool    `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Player:      "mpv",
		DataDir:     "",
		History:     true,
		Timeout:     30,
		Concurrency: 4,
		RateLimit:   2,
		UserAgent:   "",
		LogLevel:    "warn",
		Debug:       false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.LogLevel)
	}

	if c.Timeout < 1 || c.Timeout > 300 {
		return fmt.Errorf("timeout must be between 1 and 300 seconds, got %d", c.Timeout)
	}

	if c.Concurrency < 1 || c.Concurrency > 16 {
		return fmt.Errorf("concurrency must be between 1 and 16, got %d", c.Concurrency)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %g", c.RateLimit)
	}

	return nil
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Level returns the effective log level; debug mode forces "debug".
func (c *Config) Level() string {
	if c.Debug {
		return "debug"
	}
	return strings.ToLower(c.LogLevel)
}

// ExpandDataDir resolves the data directory, defaulting to the XDG data
// home and expanding a leading ~.
func (c *Config) ExpandDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("getting home directory: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		dir = filepath.Join(dataHome, appName)
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// DatabasePath returns the path to the SQLite database.
func (c *Config) DatabasePath() (string, error) {
	dir, err := c.ExpandDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".db"), nil
}

// HistoryPath returns the path to the play history file.
func (c *Config) HistoryPath() (string, error) {
	dir, err := c.ExpandDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.tsv"), nil
}
