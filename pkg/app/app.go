// Package app controls the player process: quitting, restarting, the
// single-instance lock and the login item.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/mchmarny/tunebar/pkg/instance"
)

// Process implements the process controls the menu needs.
type Process struct {
	name    string
	lock    *instance.Lock
	cancel  context.CancelFunc
	restart atomic.Bool
}

// New returns a Process that stops by calling cancel.
func New(name string, lock *instance.Lock, cancel context.CancelFunc) *Process {
	return &Process{name: name, lock: lock, cancel: cancel}
}

func (p *Process) HasSingleInstanceLock() bool {
	return p.lock.Held()
}

func (p *Process) RequestSingleInstanceLock() error {
	return p.lock.Acquire()
}

func (p *Process) ReleaseSingleInstanceLock() error {
	return p.lock.Release()
}

// Quit stops the process.
func (p *Process) Quit() {
	slog.Info("quit requested")
	p.cancel()
}

// Restart stops the process and marks it for relaunch.
func (p *Process) Restart() {
	slog.Info("restart requested")
	p.restart.Store(true)
	p.cancel()
}

// RestartRequested reports whether Restart was called.
func (p *Process) RestartRequested() bool {
	return p.restart.Load()
}

// Relaunch starts a new copy of the running binary with the same arguments.
func (p *Process) Relaunch() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to relaunch %s: %w", exe, err)
	}
	slog.Info("relaunched", "pid", cmd.Process.Pid)
	return cmd.Process.Release()
}

// SetLoginItem registers or removes the binary as a login item.
func (p *Process) SetLoginItem(openAtLogin bool) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	if err := setLoginItem(p.name, exe, openAtLogin); err != nil {
		return fmt.Errorf("failed to update login item: %w", err)
	}
	slog.Info("login item updated", "open_at_login", openAtLogin)
	return nil
}
