package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Gating.FreeProjectLimit)
	assert.Equal(t, 5, cfg.Gating.ReviewThreshold)
	assert.Equal(t, 30, cfg.Reminders.TimeoutSec)
	assert.True(t, cfg.Reminders.AutoGrant)
	assert.Equal(t, "sqlite", cfg.Settings.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Database.Path)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  in_memory: true
gating:
  free_project_limit: 7
settings:
  backend: keyring
`), 0o644))

	t.Setenv("PORTFOLIO_GATING_REVIEW_THRESHOLD", "11")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Database.InMemory)
	assert.Equal(t, 7, cfg.Gating.FreeProjectLimit)
	assert.Equal(t, 11, cfg.Gating.ReviewThreshold)
	assert.Equal(t, "keyring", cfg.Settings.Backend)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  backend: floppy\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "settings.backend")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultAppConfig()
	want.Gating.FreeProjectLimit = 10
	want.Awards.CatalogPath = "/tmp/awards.yaml"

	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Gating.FreeProjectLimit)
	assert.Equal(t, "/tmp/awards.yaml", got.Awards.CatalogPath)
}
