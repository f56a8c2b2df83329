package instance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "instance.lock")
	l, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())

	assert.False(t, l.Held())
	require.NoError(t, l.Acquire())
	assert.True(t, l.Held())
	require.NoError(t, l.Acquire())

	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, l.Release())
	assert.False(t, l.Held())
	require.NoError(t, l.Release())
}

func TestAcquireHeldByOtherLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.lock")
	first, err := New(path)
	require.NoError(t, err)
	second, err := New(path)
	require.NoError(t, err)

	require.NoError(t, first.Acquire())
	t.Cleanup(func() { _ = first.Release() })

	assert.ErrorIs(t, second.Acquire(), ErrHeld)
	assert.False(t, second.Held())

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	assert.True(t, second.Held())
	require.NoError(t, second.Release())
}

func TestAcquireIgnoresLeftoverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.lock")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o600))

	l, err := New(path)
	require.NoError(t, err)
	require.NoError(t, l.Acquire())
	assert.True(t, l.Held())
	require.NoError(t, l.Release())
}
