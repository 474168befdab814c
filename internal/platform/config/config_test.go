package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivepillars/internal/platform/config"
)

func TestNewRequiresDataDir(t *testing.T) {
	t.Parallel()
	_, err := config.New("  ")
	require.Error(t, err)
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "fivepillars.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, config.DefaultDailySessions, cfg.Goals.DailySessions)
	assert.Equal(t, config.DefaultWeeklySessions, cfg.Goals.WeeklySessions)
	assert.Equal(t, filepath.Join(dir, "store"), cfg.StorageDir())
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := "storage:\n  backend: sqlite\ngoals:\n  daily_minutes: 45\n  weekly_sessions: 10\ntimezone: UTC\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlDoc), 0o644))
	t.Setenv("FIVEPILLARS_WEEKLY_SESSIONS", "14")
	t.Setenv("FIVEPILLARS_LOG_LEVEL", "debug")

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 45, cfg.Goals.DailyMinutes)
	assert.Equal(t, 14, cfg.Goals.WeeklySessions)
	assert.Equal(t, "debug", cfg.Log.Level)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadReadsDotEnvFromDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FIVEPILLARS_STORAGE_BACKEND=memory\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("FIVEPILLARS_STORAGE_BACKEND") })

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("storage:\n  backend: floppy\n"), 0o644))

	_, err := config.Load(dir, "")
	require.Error(t, err)
}
