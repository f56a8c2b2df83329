package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "config.toml"), Defaults())
	require.NoError(t, err)
	return s
}

func TestOpenWritesDefaults(t *testing.T) {
	s := openTemp(t)

	_, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.True(t, s.Bool(KeyAutoUpdates))
	assert.True(t, s.Bool(KeyAppVisible))
	assert.Empty(t, s.Strings(KeyThemes))
}

func TestOpenMergesDefaultsUnderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[options]\nautoUpdates = false\nproxy = \"socks5://127.0.0.1:9999\"\n"), 0o600))

	s, err := Open(path, Defaults())
	require.NoError(t, err)

	assert.False(t, s.Bool(KeyAutoUpdates))
	assert.Equal(t, "socks5://127.0.0.1:9999", s.String(KeyProxy))
	assert.True(t, s.Bool(KeyResumeOnStart))
}

func TestOpenRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[options\n"), 0o600))

	_, err := Open(path, Defaults())
	assert.Error(t, err)
}

func TestSetPersists(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Set(KeyAlwaysOnTop, true))
	require.NoError(t, s.Set(KeyThemes, []string{"a.css", "b.css"}))

	reopened, err := Open(s.Path(), Defaults())
	require.NoError(t, err)
	assert.True(t, reopened.Bool(KeyAlwaysOnTop))
	assert.Equal(t, []string{"a.css", "b.css"}, reopened.Strings(KeyThemes))
}

func TestTypedGettersDefaultOnMismatch(t *testing.T) {
	s := openTemp(t)

	assert.False(t, s.Bool(KeyProxy))
	assert.Empty(t, s.String(KeyAutoUpdates))
	assert.Nil(t, s.Strings(KeyAutoUpdates))
	assert.False(t, s.Bool("options.missing"))
	assert.False(t, s.Bool(""))
}

func TestSetRejectsBadPaths(t *testing.T) {
	s := openTemp(t)

	assert.ErrorIs(t, s.Set("", true), ErrInvalidPath)
	assert.ErrorIs(t, s.Set("options..tray", true), ErrInvalidPath)
	assert.ErrorIs(t, s.Set("options.tray.nested", true), ErrTypeMismatch)
}

func TestSetManyIsAtomic(t *testing.T) {
	s := openTemp(t)

	err := s.SetMany(map[string]any{
		KeyTray:             true,
		"options.tray.oops": true,
		KeyAppVisible:       false,
	})
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.False(t, s.Bool(KeyTray))
	assert.True(t, s.Bool(KeyAppVisible))

	require.NoError(t, s.SetMany(map[string]any{KeyTray: true, KeyAppVisible: false}))
	assert.True(t, s.Bool(KeyTray))
	assert.False(t, s.Bool(KeyAppVisible))
}

func TestSetMenuOptionRestarts(t *testing.T) {
	s := openTemp(t)
	restarts := 0
	s.OnRestart(func() { restarts++ })

	require.NoError(t, s.SetMenuOption(KeyAutoUpdates, false))
	assert.Equal(t, 0, restarts)

	require.NoError(t, s.Set(KeyRestartOnConfigChanges, true))
	require.NoError(t, s.SetMenuOption(KeyAutoUpdates, true))
	assert.Equal(t, 1, restarts)
	assert.True(t, s.Bool(KeyAutoUpdates))
}

func TestPlugins(t *testing.T) {
	s := openTemp(t)

	assert.False(t, s.PluginEnabled("adblocker"))
	require.NoError(t, s.EnablePlugin("adblocker"))
	assert.True(t, s.PluginEnabled("adblocker"))
	require.NoError(t, s.DisablePlugin("adblocker"))
	assert.False(t, s.PluginEnabled("adblocker"))
}

func TestSub(t *testing.T) {
	s := openTemp(t)
	scope := s.Sub("plugins.notifications")

	require.NoError(t, scope.Set("urgency", "high"))
	assert.Equal(t, "high", scope.String("urgency"))
	assert.Equal(t, "high", s.String("plugins.notifications.urgency"))
	assert.False(t, scope.Bool("interactive"))
}

func TestEdit(t *testing.T) {
	s := openTemp(t)
	var opened string
	s.opener = func(path string) error {
		opened = path
		return nil
	}

	require.NoError(t, s.Edit())
	assert.Equal(t, s.Path(), opened)
}

func TestReloadIgnoresOwnWrites(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Set(KeyTray, true))

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(s.Path(), []byte("[options]\ntray = false\nlanguage = \"de\"\n"), 0o600))

	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "de", s.String(KeyLanguage))
	assert.False(t, s.Bool(KeyTray))
	assert.True(t, s.Bool(KeyAutoUpdates))
}

func TestWatchReportsExternalChanges(t *testing.T) {
	s := openTemp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// wait for the watcher to be registered before writing
	require.Eventually(t, func() bool {
		_ = os.WriteFile(s.Path(), []byte("[options]\nlanguage = \"fr\"\n"), 0o600)
		select {
		case <-changed:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	// editors may write in several steps; the last reload wins
	assert.Eventually(t, func() bool {
		return s.String(KeyLanguage) == "fr"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
