package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a config with only the storage driver
		path := writeConfig(t, "storage:\n  driver: memory\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: the rest comes from the defaults
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, LogFormatJSON, conf.LogFormat)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "7777", conf.SocketPort)
		assert.Equal(t, StorageMemory, conf.Storage.Driver)
		assert.False(t, conf.Game.AIEnabled)
		assert.Equal(t, 500*time.Millisecond, conf.Game.AIDelay)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Values from the file win", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
log-format: text
storage:
  driver: sqlite
  sqlite-path: /tmp/score.db
game:
  ai-enabled: true
  ai-delay: 2s
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, LogFormatText, conf.LogFormat)
		assert.Equal(t, StorageSQLite, conf.Storage.Driver)
		assert.Equal(t, "/tmp/score.db", conf.Storage.SQLitePath)
		assert.True(t, conf.Game.AIEnabled)
		assert.Equal(t, 2*time.Second, conf.Game.AIDelay)
	})

	t.Run("Unknown storage driver", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: mongo\n")

		_, err := Load(path)

		require.ErrorContains(t, err, `unknown storage driver "mongo"`)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}

func TestMustLoad_Panics(t *testing.T) {
	path := writeConfig(t, "log-format: xml\n")

	assert.Panics(t, func() { MustLoad(path) })
}

func TestLoadEnv(t *testing.T) {
	// Given: the storage driver comes from the environment
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("GAME_AI_DELAY", "50ms")

	// When: the config is built without a file
	conf, err := LoadEnv()

	// Then: env values and defaults are used
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, conf.Storage.Driver)
	assert.Equal(t, 50*time.Millisecond, conf.Game.AIDelay)
	assert.Equal(t, "7777", conf.SocketPort)
}

func TestLoadFileOrEnv(t *testing.T) {
	t.Run("File exists", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: sqlite\n")

		conf, err := LoadFileOrEnv(path)

		require.NoError(t, err)
		assert.Equal(t, StorageSQLite, conf.Storage.Driver)
	})

	t.Run("No file", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageMemory)

		conf, err := LoadFileOrEnv(filepath.Join(t.TempDir(), "absent.yml"))

		require.NoError(t, err)
		assert.Equal(t, StorageMemory, conf.Storage.Driver)
	})
}
