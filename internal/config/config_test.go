package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetForTesting()
	t.Cleanup(resetForTesting)
}

func TestLoad_Default(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load()
	require.NoError(t, err)

	_, bound := cfg.Host()
	assert.False(t, bound, "fresh config must have no host binding")
	assert.True(t, cfg.Preferences.ColorOutput)
}

func TestConfig_HostBinding(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.NoError(t, cfg.SetHost("https://demo.example"))

	host, bound := cfg.Host()
	assert.True(t, bound)
	assert.Equal(t, "https://demo.example", host)

	// Overwrites unconditionally
	require.NoError(t, cfg.SetHost("https://other.example"))
	host, _ = cfg.Host()
	assert.Equal(t, "https://other.example", host)

	require.NoError(t, cfg.ClearHost())
	_, bound = cfg.Host()
	assert.False(t, bound)
}

func TestConfig_PersistsAcrossLoads(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.SetHost("https://demo.example"))
	require.NoError(t, cfg.SetServerInfo("Demo", "10.9.1"))

	// Reload from disk
	resetForTesting()
	reloaded, err := Load()
	require.NoError(t, err)

	host, bound := reloaded.Host()
	assert.True(t, bound)
	assert.Equal(t, "https://demo.example", host)

	name, version := reloaded.Server()
	assert.Equal(t, "Demo", name)
	assert.Equal(t, "10.9.1", version)
}

func TestConfig_ClearHostDropsServerInfo(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.SetHost("https://demo.example"))
	require.NoError(t, cfg.SetServerInfo("Demo", "10.9.1"))

	require.NoError(t, cfg.ClearHost())

	name, version := cfg.Server()
	assert.Empty(t, name)
	assert.Empty(t, version)
}

func TestConfig_FileLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	resetForTesting()
	t.Cleanup(resetForTesting)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	_, err = os.Stat(filepath.Join(dir, "jellykids", "config.json"))
	assert.NoError(t, err)
}
