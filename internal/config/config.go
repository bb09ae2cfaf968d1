package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

type Config struct {
	QuickAskShortcut string       `json:"quick_ask_shortcut,omitempty"`
	SearchShortcut   string       `json:"search_shortcut,omitempty"`
	ChatShortcut     string       `json:"chat_shortcut,omitempty"`
	EnableSelect     bool         `json:"enable_select"`
	Select           SelectConfig `json:"select"`
	LogLevel         string       `json:"log_level"` // "debug", "info", "warn", "error"
}

type SelectConfig struct {
	PollIntervalMs int `json:"poll_interval_ms"`
}

// Provider supplies the current configuration.
type Provider interface {
	Current() (*Config, error)
}

// Default returns the configuration used when nothing is on disk or the
// file cannot be read: no hotkeys, selection disabled.
func Default() *Config {
	return &Config{
		Select: SelectConfig{
			PollIntervalMs: 300,
		},
		LogLevel: "info",
	}
}

// PollInterval returns the selection poll interval, never below 50ms.
func (c *Config) PollInterval() time.Duration {
	d := time.Duration(c.Select.PollIntervalMs) * time.Millisecond
	if d < 50*time.Millisecond {
		return 50 * time.Millisecond
	}
	return d
}

// Store reads and writes the config file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store for path, or for the platform default path when
// path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Current re-reads the file so callers always see the latest saved values.
func (s *Store) Current() (*Config, error) {
	return s.Load()
}

// Load reads the config from disk or returns defaults
func (s *Store) Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (s *Store) Save(c *Config) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Update loads the current config, applies fn and saves the result.
func (s *Store) Update(fn func(*Config)) (*Config, error) {
	cfg, err := s.Load()
	if err != nil {
		return nil, err
	}
	fn(cfg)
	if err := s.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the platform-specific config file path
func DefaultPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "askbar", "config.json")
}
