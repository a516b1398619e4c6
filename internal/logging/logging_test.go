package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		var out bytes.Buffer
		logger := New(&out, "info", config.LogFormatJSON)

		logger.With("component", "test").Info("score loaded", "x", 3)

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "score loaded", record["msg"])
		assert.Equal(t, "test", record["component"])
		assert.InDelta(t, 3, record["x"], 0)
	})

	t.Run("Text", func(t *testing.T) {
		var out bytes.Buffer
		logger := New(&out, "debug", config.LogFormatText)

		logger.Debug("move applied", "cell", 4)

		assert.Contains(t, out.String(), "move applied")
		assert.Contains(t, out.String(), "cell=4")
	})

	t.Run("Level filters", func(t *testing.T) {
		var out bytes.Buffer
		logger := New(&out, "warn", config.LogFormatJSON)

		logger.Info("hidden")

		assert.Empty(t, out.String())
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
