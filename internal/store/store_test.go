package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJsonFile(t *testing.T) {
	t.Run("MissingFileLoadsEmpty", func(t *testing.T) {
		store := NewJsonFile(filepath.Join(t.TempDir(), "sent_items.json"), zap.NewNop())
		links, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("FlushWritesPrettyArray", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sent_items.json")
		store := NewJsonFile(path, zap.NewNop())
		_, err := store.Load()
		require.NoError(t, err)

		store.Append("https://a", "https://b?c=48&navId=48")
		require.NoError(t, store.Flush())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[\n    \"https://a\",\n    \"https://b?c=48&navId=48\"\n]\n", string(content))
	})

	t.Run("AppendKeepsLoadedOrder", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sent_items.json")
		require.NoError(t, os.WriteFile(path, []byte(`["https://b", "https://a"]`), 0o644))

		store := NewJsonFile(path, zap.NewNop())
		links, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://b", "https://a"}, links)

		store.Append("https://c")
		require.NoError(t, store.Flush())

		reloaded, err := NewJsonFile(path, zap.NewNop()).Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://b", "https://a", "https://c"}, reloaded)
	})

	t.Run("LoadDropsUnflushedLinks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sent_items.json")
		store := NewJsonFile(path, zap.NewNop())
		store.Append("https://a")

		links, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, links)
		require.NoError(t, store.Flush())

		reloaded, err := NewJsonFile(path, zap.NewNop()).Load()
		require.NoError(t, err)
		assert.Empty(t, reloaded)
	})

	t.Run("CorruptedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sent_items.json")
		require.NoError(t, os.WriteFile(path, []byte(`["https://a",`), 0o644))

		_, err := NewJsonFile(path, zap.NewNop()).Load()
		assert.Error(t, err)
	})

	t.Run("NoTemporaryFilesLeft", func(t *testing.T) {
		dir := t.TempDir()
		store := NewJsonFile(filepath.Join(dir, "sent_items.json"), zap.NewNop())
		store.Append("https://a")
		require.NoError(t, store.Flush())
		require.NoError(t, store.Flush())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "sent_items.json", entries[0].Name())
	})
}

func TestBadger(t *testing.T) {
	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "sent_items")

		store, err := OpenBadger(dir, zap.NewNop())
		require.NoError(t, err)
		links, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, links)

		store.Append("https://b", "https://a")
		require.NoError(t, store.Flush())
		require.NoError(t, store.Close())

		store, err = OpenBadger(dir, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()

		links, err = store.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://b", "https://a"}, links)

		store.Append("https://c")
		require.NoError(t, store.Flush())

		links, err = store.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://b", "https://a", "https://c"}, links)
	})

	t.Run("LoadDropsUnflushedLinks", func(t *testing.T) {
		store, err := OpenBadger("", zap.NewNop())
		require.NoError(t, err)
		defer store.Close()

		store.Append("https://a")
		links, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, links)

		require.NoError(t, store.Flush())
		links, err = store.Load()
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(JsonBackend, filepath.Join(dir, "sent_items.json"), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &JsonFile{}, store)

	store, err = Open(BadgerBackend, filepath.Join(dir, "badger"), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Badger{}, store)
	require.NoError(t, store.Close())

	_, err = Open("redis", dir, zap.NewNop())
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
