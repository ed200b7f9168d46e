package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKeyValue runs the behaviour every backend must share.
func exerciseKeyValue(t *testing.T, kv KeyValue) {
	t.Helper()
	ctx := context.Background()

	_, found, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found, "unknown keys are not found")

	require.NoError(t, kv.Set(ctx, SettingsKey, `{"numDecks":2}`))
	require.NoError(t, kv.Set(ctx, StateKey, `{"numDecks":2,"cards":[],"runningCount":0}`))

	value, found, err := kv.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"numDecks":2}`, value)

	require.NoError(t, kv.Set(ctx, SettingsKey, `{"numDecks":6}`))
	value, _, err = kv.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.Equal(t, `{"numDecks":6}`, value, "set overwrites")

	value, _, err = kv.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.Equal(t, `{"numDecks":2,"cards":[],"runningCount":0}`, value, "keys are independent")
}

func TestInMemoryStore(t *testing.T) {
	kv := NewInMemoryStore()
	exerciseKeyValue(t, kv)
	assert.ElementsMatch(t, []string{SettingsKey, StateKey}, kv.Keys())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	kv, err := NewFileStore(path)
	require.NoError(t, err)

	exerciseKeyValue(t, kv)
	assert.Equal(t, path, kv.Path())
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, StateKey, "persisted"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	value, found, err := second.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persisted", value)
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	kv, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = kv.Get(ctx, StateKey)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, errCorruptFile)

	require.NoError(t, kv.Set(ctx, StateKey, "fresh"), "a corrupt file is replaced on write")
	value, found, err := kv.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fresh", value)
}

func TestFileStore_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := NewFileStore(filepath.Join(blocker, "state.json"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestFileStore_ReadFailureKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, SettingsKey, `{"numDecks":6}`))

	kv.readFile = func(string) ([]byte, error) {
		return nil, errors.New("input/output error")
	}
	err = kv.Set(ctx, StateKey, "lost")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, errCorruptFile)

	kv.readFile = os.ReadFile
	value, found, err := kv.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.True(t, found, "a failed read never rewrites the file")
	assert.Equal(t, `{"numDecks":6}`, value)

	_, found, err = kv.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.False(t, found)
}
