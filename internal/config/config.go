// Package config manages user-level configuration for the JellyKids CLI
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config represents the user's JellyKids CLI configuration. The host
// binding lives here: it is plain state, unlike the credentials which go
// to the OS keyring.
type Config struct {
	// HostURL is the currently bound server base URL
	HostURL string `json:"host_url,omitempty"`

	// ServerName caches the bound server's reported name
	ServerName string `json:"server_name,omitempty"`

	// ServerVersion caches the bound server's reported version
	ServerVersion string `json:"server_version,omitempty"`

	// Preferences stores user preferences
	Preferences Preferences `json:"preferences,omitempty"`

	// Version of the config schema
	Version string `json:"version"`
}

// Preferences stores user preferences
type Preferences struct {
	// ColorOutput controls whether to use colored output
	ColorOutput bool `json:"color_output"`

	// Verbose controls verbose output
	Verbose bool `json:"verbose"`
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// configPath returns the path to the config file
func configPath() (string, error) {
	var configDir string

	// Check XDG_CONFIG_HOME first for testing and Linux compatibility
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		configDir = xdgConfig
	} else {
		// Fall back to os.UserConfigDir() for platform-specific defaults
		var err error
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to get config directory: %w", err)
		}
	}

	return filepath.Join(configDir, "jellykids", "config.json"), nil
}

// Load loads the configuration from disk or creates a new one
func Load() (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = load()
	})

	if err != nil {
		return nil, err
	}

	return instance, nil
}

// load reads the config from disk or creates default
func load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is controlled via configPath()
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns a default configuration
func defaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Preferences: Preferences{
			ColorOutput: true,
			Verbose:     false,
		},
	}
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	mu.Lock()
	defer mu.Unlock()

	return c.save()
}

func (c *Config) save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal with indentation for readability
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically by writing to temp file then renaming
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Host returns the bound server base URL, if any
func (c *Config) Host() (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	return c.HostURL, c.HostURL != ""
}

// SetHost binds a server base URL, overwriting any previous binding, and
// persists synchronously
func (c *Config) SetHost(url string) error {
	mu.Lock()
	defer mu.Unlock()

	c.HostURL = url
	return c.save()
}

// ClearHost removes the host binding along with the cached server info
func (c *Config) ClearHost() error {
	mu.Lock()
	defer mu.Unlock()

	c.HostURL = ""
	c.ServerName = ""
	c.ServerVersion = ""
	return c.save()
}

// SetServerInfo caches the bound server's reported name and version
func (c *Config) SetServerInfo(name, version string) error {
	mu.Lock()
	defer mu.Unlock()

	c.ServerName = name
	c.ServerVersion = version
	return c.save()
}

// Server returns the cached server name and version
func (c *Config) Server() (name, version string) {
	mu.RLock()
	defer mu.RUnlock()

	return c.ServerName, c.ServerVersion
}

// resetForTesting clears the singleton so tests can reload from a fresh
// XDG_CONFIG_HOME
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()

	instance = nil
	once = sync.Once{}
}
