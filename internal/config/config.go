// Package config loads and saves the shellicon settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/justyntemme/shellicon/internal/debug"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Icons    IconsConfig    `json:"icons"`
	Prefetch PrefetchConfig `json:"prefetch"`
	Export   ExportConfig   `json:"export"`
}

// IconsConfig holds icon lookup settings
type IconsConfig struct {
	Size        string `json:"size"` // "small" | "large"
	LinkOverlay bool   `json:"linkOverlay"`
}

// PrefetchConfig holds directory warm-up settings
type PrefetchConfig struct {
	Workers        int  `json:"workers"` // 0 = number of CPUs
	FollowSymlinks bool `json:"followSymlinks"`
}

// ExportConfig holds icon export settings
type ExportConfig struct {
	Format string `json:"format"` // "png" | "ico"
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Icons: IconsConfig{
			Size:        "small",
			LinkOverlay: false,
		},
		Prefetch: PrefetchConfig{
			Workers:        0,
			FollowSymlinks: false,
		},
		Export: ExportConfig{
			Format: "png",
		},
	}
}

// ConfigPath returns the config file path: ~/.config/shellicon/config.json
// This is consistent across all platforms (Windows, macOS, Linux)
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shellicon", "config.json")
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = ConfigPath()
	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		debug.Log(debug.CONFIG, "failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		debug.Log(debug.CONFIG, "creating default config at %s", m.path)
		m.config = DefaultConfig()
		if saveErr := m.saveUnlocked(); saveErr != nil {
			debug.Log(debug.CONFIG, "failed to save default config: %v", saveErr)
			return saveErr
		}
		return nil
	}
	if err != nil {
		debug.Log(debug.CONFIG, "failed to read %s: %v", m.path, err)
		return err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		debug.Log(debug.CONFIG, "JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}
	if err := cfg.Validate(); err != nil {
		debug.Log(debug.CONFIG, "invalid config: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}

	debug.Log(debug.CONFIG, "loaded from %s", m.path)
	m.config = &cfg
	return nil
}

// Validate reports the first setting outside its allowed values. Empty
// strings are allowed and mean the default.
func (c *Config) Validate() error {
	switch c.Icons.Size {
	case "", "small", "large":
	default:
		return fmt.Errorf("icons.size: %q is not small or large", c.Icons.Size)
	}
	if c.Prefetch.Workers < 0 {
		return fmt.Errorf("prefetch.workers: %d is negative", c.Prefetch.Workers)
	}
	switch c.Export.Format {
	case "", "png", "ico":
	default:
		return fmt.Errorf("export.format: %q is not png or ico", c.Export.Format)
	}
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path == "" {
		m.path = ConfigPath()
	}
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetIconSize updates the default icon size and saves
func (m *Manager) SetIconSize(size string) error {
	return m.update(func(c *Config) { c.Icons.Size = size })
}

// SetLinkOverlay updates whether shortcut arrows are drawn by default and saves
func (m *Manager) SetLinkOverlay(on bool) error {
	return m.update(func(c *Config) { c.Icons.LinkOverlay = on })
}

// SetWorkers updates the prefetch worker count and saves
func (m *Manager) SetWorkers(n int) error {
	return m.update(func(c *Config) { c.Prefetch.Workers = n })
}

// SetExportFormat updates the export format and saves
func (m *Manager) SetExportFormat(format string) error {
	return m.update(func(c *Config) { c.Export.Format = format })
}

// update applies fn to a copy of the config, validates the result and only
// then replaces the current config and writes it to disk.
func (m *Manager) update(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := *m.config
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	m.config = &next
	if m.path == "" {
		m.path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	debug.Log(debug.CONFIG, "saving %s", m.path)
	return m.saveUnlocked()
}

// Workers returns the prefetch worker count, resolving 0 to the CPU count
func (m *Manager) Workers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config.Prefetch.Workers > 0 {
		return m.config.Prefetch.Workers
	}
	return runtime.NumCPU()
}

// ExportFormat returns the export format, defaulting to "png"
func (m *Manager) ExportFormat() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config.Export.Format == "" {
		return "png"
	}
	return m.config.Export.Format
}

// GenerateConfig backs up the existing config (if any) and writes a fresh
// default config. Returns the backup path, or "" when there was nothing to
// back up.
func (m *Manager) GenerateConfig() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		m.path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return "", err
	}

	var backupPath string
	if _, err := os.Stat(m.path); err == nil {
		backupPath = m.path + ".backup." + time.Now().Format("20060102-150405")
		if err := os.Rename(m.path, backupPath); err != nil {
			debug.Log(debug.CONFIG, "failed to backup config: %v", err)
			return "", err
		}
		debug.Log(debug.CONFIG, "backed up config to %s", backupPath)
	}

	m.config = DefaultConfig()
	m.parseErr = nil
	if err := m.saveUnlocked(); err != nil {
		debug.Log(debug.CONFIG, "failed to write new config: %v", err)
		return backupPath, err
	}
	debug.Log(debug.CONFIG, "generated new config at %s", m.path)
	return backupPath, nil
}
