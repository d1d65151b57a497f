package lock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first := New(path)
	second := New(path)
	assert.Equal(t, path, first.Path())

	require.NoError(t, first.TryLock())
	assert.True(t, first.Locked())

	err := second.TryLock()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))
	assert.False(t, second.Locked())

	require.NoError(t, first.Unlock())
	assert.False(t, first.Locked())

	require.NoError(t, second.TryLock())
	require.NoError(t, second.Unlock())
}

func TestUnlockWithoutLock(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "idle.lock"))
	assert.NoError(t, l.Unlock())
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Equal(t, fileName, filepath.Base(path))
}
