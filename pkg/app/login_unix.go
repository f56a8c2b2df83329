//go:build !windows

package app

import (
	"github.com/emersion/go-autostart"
)

// loginApp describes the binary as a LaunchAgent on darwin and an XDG
// autostart entry elsewhere.
func loginApp(name, exe string) *autostart.App {
	return &autostart.App{
		Name:        "com.github.mchmarny." + name,
		DisplayName: name,
		Exec:        []string{exe},
	}
}

func setLoginItem(name, exe string, on bool) error {
	a := loginApp(name, exe)
	switch {
	case on:
		return a.Enable()
	case a.IsEnabled():
		return a.Disable()
	}
	return nil
}
