// Package instance implements the process-wide single-instance lock.
package instance

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-homedir"
)

// ErrHeld is returned when another process owns the lock.
var ErrHeld = errors.New("instance lock held by another process")

// Lock is an advisory OS lock on a file. The OS drops it when the owning
// process exits, so a crashed instance never blocks the next one.
type Lock struct {
	mu sync.Mutex
	fl *flock.Flock
}

// New returns an unacquired lock at path.
func New(path string) (*Lock, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand lock path %q: %w", path, err)
	}
	return &Lock{fl: flock.New(expanded)}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Held reports whether this process owns the lock.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fl.Locked()
}

// Acquire takes the lock without waiting. Acquiring a held lock is a no-op.
func (l *Lock) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fl.Locked() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0o755); err != nil {
		return fmt.Errorf("failed to create lock dir: %w", err)
	}

	locked, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", l.fl.Path(), err)
	}
	if !locked {
		return ErrHeld
	}
	slog.Info("instance lock acquired", "path", l.fl.Path())
	return nil
}

// Release gives the lock up. Releasing an unheld lock is a no-op. The file
// stays behind; removing it would race with a process opening it.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.fl.Locked() {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.fl.Path(), err)
	}
	slog.Info("instance lock released", "path", l.fl.Path())
	return nil
}
