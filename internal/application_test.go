package application

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		store, err := OpenStorage(ctx, &config.Config{Storage: config.Storage{Driver: config.StorageMemory}})

		require.NoError(t, err)
		assert.IsType(t, &storage.MemoryStorage{}, store)
	})

	t.Run("SQLite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "score.db")

		store, err := OpenStorage(ctx, &config.Config{Storage: config.Storage{Driver: config.StorageSQLite, SQLitePath: path}})

		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		assert.IsType(t, &storage.SQLiteStorage{}, store)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := OpenStorage(ctx, &config.Config{Storage: config.Storage{Driver: "etcd"}})

		require.ErrorContains(t, err, `unknown storage driver "etcd"`)
	})
}

func TestNewGameManager_UsesStoredScore(t *testing.T) {
	// Given: a store that remembers 2:1
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Set(ctx, "scoreX", "2"))
	require.NoError(t, store.Set(ctx, "scoreO", "1"))

	conf := &config.Config{Game: config.Game{AIEnabled: true, AIDelay: time.Hour}}

	// When: the application wires the manager
	manager := NewGameManager(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), conf, store)
	t.Cleanup(manager.Close)

	// Then: score and AI switch come through
	state := manager.State()
	assert.Equal(t, 2, state.Score.X)
	assert.Equal(t, 1, state.Score.O)
	assert.True(t, state.Game.AIEnabled)
}
