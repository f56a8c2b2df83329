// Package config persists the player options and plugin states in a TOML
// file and exposes them through dotted option paths.
package config

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/skratchdot/open-golang/open"
)

// Store is a file-backed option tree. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	data     map[string]any
	defaults map[string]any
	written  [sha256.Size]byte
	restart  func()
	opener   func(path string) error
}

// Open loads the file at path, creating it from defaults when missing.
func Open(path string, defaults map[string]any) (*Store, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %q: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", expanded, err)
	}
	if defaults == nil {
		defaults = map[string]any{}
	}

	s := &Store{
		path:     abs,
		data:     map[string]any{},
		defaults: defaults,
		opener:   open.Start,
	}

	raw, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("config file not found, writing defaults", "path", abs)
		merge(s.data, defaults)
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", abs, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", abs, err)
	}
	merge(data, defaults)
	s.data = data
	s.written = sha256.Sum256(raw)

	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// OnRestart sets the callback SetMenuOption uses when the
// restart-on-config-changes option is on.
func (s *Store) OnRestart(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restart = f
}

// Get returns the raw value at path.
func (s *Store) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.data, path)
}

// Bool returns the boolean at path, false when absent or not a boolean.
func (s *Store) Bool(path string) bool {
	v, _ := s.Get(path)
	b, _ := v.(bool)
	return b
}

// String returns the string at path, empty when absent or not a string.
func (s *Store) String(path string) string {
	v, _ := s.Get(path)
	str, _ := v.(string)
	return str
}

// Strings returns the string list at path. Non-string elements are skipped.
func (s *Store) Strings(path string) []string {
	v, _ := s.Get(path)
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Set writes value at path and persists the file.
func (s *Store) Set(path string, value any) error {
	return s.SetMany(map[string]any{path: value})
}

// SetMany writes every value and persists the file once. Either all
// values are applied or none are.
func (s *Store) SetMany(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.data)
	for path, value := range values {
		if err := assign(next, path, normalize(value)); err != nil {
			return err
		}
	}

	prev := s.data
	s.data = next
	if err := s.save(); err != nil {
		s.data = prev
		return err
	}

	slog.Debug("config updated", "keys", len(values))
	return nil
}

// SetMenuOption writes value at path and restarts the application when the
// user asked for restarts on config changes.
func (s *Store) SetMenuOption(path string, value any) error {
	if err := s.Set(path, value); err != nil {
		return err
	}

	s.mu.RLock()
	restart := s.restart
	s.mu.RUnlock()

	if restart != nil && s.Bool(KeyRestartOnConfigChanges) {
		slog.Info("restarting after option change", "path", path)
		restart()
	}
	return nil
}

// PluginEnabled reports whether the plugin is enabled.
func (s *Store) PluginEnabled(id string) bool {
	return s.Bool(pluginKey(id, "enabled"))
}

// EnablePlugin marks the plugin enabled.
func (s *Store) EnablePlugin(id string) error {
	return s.Set(pluginKey(id, "enabled"), true)
}

// DisablePlugin marks the plugin disabled.
func (s *Store) DisablePlugin(id string) error {
	return s.Set(pluginKey(id, "enabled"), false)
}

// Edit opens the config file in the OS default editor.
func (s *Store) Edit() error {
	if err := s.opener(s.path); err != nil {
		return fmt.Errorf("failed to open %s for editing: %w", s.path, err)
	}
	return nil
}

// Reload re-reads the file. It reports false when the content is what the
// store last wrote.
func (s *Store) Reload() (bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sum := sha256.Sum256(raw)
	if sum == s.written {
		return false, nil
	}

	data, err := decode(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}
	merge(data, s.defaults)
	s.data = data
	s.written = sum

	return true, nil
}

// Sub returns a view of the store rooted at prefix.
func (s *Store) Sub(prefix string) *Scope {
	return &Scope{store: s, prefix: strings.TrimSuffix(prefix, ".")}
}

// save must be called with the write lock held.
func (s *Store) save() error {
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}

	s.written = sha256.Sum256(raw)
	return nil
}

func decode(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func pluginKey(id, key string) string {
	return "plugins." + id + "." + key
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return parts, nil
}

func lookup(data map[string]any, path string) (any, bool) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	var cur any = data
	for _, p := range parts {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = table[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(data map[string]any, path string, value any) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	table := data
	for _, p := range parts[:len(parts)-1] {
		next, ok := table[p]
		if !ok {
			child := map[string]any{}
			table[p] = child
			table = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not a table in %q", ErrTypeMismatch, p, path)
		}
		table = child
	}
	table[parts[len(parts)-1]] = value
	return nil
}

// normalize stores lists as []any so values read back from the file and
// values set in memory have the same shape.
func normalize(value any) any {
	if list, ok := value.([]string); ok {
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	}
	return value
}

// merge copies keys from src that are missing in dst, descending into tables.
func merge(dst, src map[string]any) {
	for k, v := range src {
		existing, ok := dst[k]
		if !ok {
			if table, isTable := v.(map[string]any); isTable {
				child := map[string]any{}
				merge(child, table)
				dst[k] = child
				continue
			}
			dst[k] = v
			continue
		}
		dt, dok := existing.(map[string]any)
		st, sok := v.(map[string]any)
		if dok && sok {
			merge(dt, st)
		}
	}
}

func clone(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if table, ok := v.(map[string]any); ok {
			out[k] = clone(table)
			continue
		}
		out[k] = v
	}
	return out
}
