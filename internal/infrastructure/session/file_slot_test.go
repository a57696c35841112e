package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.jwt")
	slot := NewFileSlot(path)

	token, err := slot.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, slot.Store("abc.def.ghi"))
	token, err = slot.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, slot.Store("second"))
	token, _ = slot.Load()
	assert.Equal(t, "second", token)

	require.NoError(t, slot.Clear())
	require.NoError(t, slot.Clear())
	token, _ = slot.Load()
	assert.Empty(t, token)
}

func TestMemorySlot(t *testing.T) {
	slot := NewMemorySlot()
	require.NoError(t, slot.Store("tok"))
	token, _ := slot.Load()
	assert.Equal(t, "tok", token)
	require.NoError(t, slot.Clear())
	token, _ = slot.Load()
	assert.Empty(t, token)
}
