package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TASKBOARD_CONFIG", "TASKBOARD_STORAGE_DRIVER", "TASKBOARD_DATA_DIR", "TASKBOARD_KEY_PREFIX",
		"TASKBOARD_STORAGE_TIMEOUT", "TASKBOARD_MAX_BACKUPS", "TASKBOARD_REDIS_URL",
		"TASKBOARD_REDIS_PASSWORD", "TASKBOARD_REDIS_DB", "TASKBOARD_TIMEZONE", "LOG_LEVEL", "LOG_ENCODING",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join("/tmp/xdg", "taskboard"), cfg.Storage.DataDir)
	assert.Equal(t, "taskboard:", cfg.Storage.KeyPrefix)
	assert.Equal(t, 2*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, 10, cfg.Storage.MaxBackups)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Encoding)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yamlData := `storage:
  driver: bolt
  data_dir: /var/lib/taskboard
  timeout: 5s
  max_backups: 3
logger:
  level: debug
timezone: UTC
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o644))
	t.Setenv("TASKBOARD_STORAGE_DRIVER", "sqlite")
	t.Setenv("TASKBOARD_STORAGE_TIMEOUT", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/taskboard", cfg.Storage.DataDir)
	assert.Equal(t, 7*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, 3, cfg.Storage.MaxBackups)
	assert.Equal(t, "debug", cfg.Logger.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadFindsDefaultFileAndDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("storage:\n  driver: memory\n"), 0o644))
	require.NoError(t, os.WriteFile(".env", []byte("TASKBOARD_KEY_PREFIX=from-dotenv:\n"), 0o644))
	// godotenv does not override variables that are already set, even empty ones
	require.NoError(t, os.Unsetenv("TASKBOARD_KEY_PREFIX"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "from-dotenv:", cfg.Storage.KeyPrefix)
	require.NoError(t, os.Unsetenv("TASKBOARD_KEY_PREFIX"))
}

func TestLoadRejectsBadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLocationRejectsUnknownZone(t *testing.T) {
	cfg := &Config{Timezone: "Mars/Olympus"}
	_, err := cfg.Location()
	assert.Error(t, err)
}
