package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	require.NoError(t, AtomicWrite(path, []byte("hello"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "tmp file should not remain after a successful write")
}

func TestAtomicWrite_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.json")

	require.NoError(t, AtomicWrite(path, []byte("v1"), 0o644))
	require.NoError(t, AtomicWrite(path, []byte("v2"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestAtomicWrite_BadDir(t *testing.T) {
	err := AtomicWrite(filepath.Join(t.TempDir(), "missing", "file.txt"), []byte("data"), 0o644)
	assert.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
