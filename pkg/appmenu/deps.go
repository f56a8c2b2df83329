// Package appmenu builds the player's application menu from the current
// options, plugins and language, and reinstalls it when its shape changes.
package appmenu

import (
	"golang.org/x/text/collate"

	"github.com/mchmarny/tunebar/pkg/i18n"
	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/plugin"
	"github.com/mchmarny/tunebar/pkg/window"
)

// Config is the option store the menu reads and writes.
type Config interface {
	Bool(path string) bool
	String(path string) string
	Strings(path string) []string
	Set(path string, value any) error
	SetMany(values map[string]any) error
	SetMenuOption(path string, value any) error
	PluginEnabled(id string) bool
	EnablePlugin(id string) error
	DisablePlugin(id string) error
	Edit() error
}

// Plugins supplies the registered plugins and their menu fragments.
type Plugins interface {
	Names() map[string]string
	Contributions(win window.Window, refresh plugin.RefreshFunc) map[string][]menu.Node
}

// Localizer resolves menu labels.
type Localizer interface {
	T(key string) string
	SetLanguage(id string) error
	Language() string
	Languages() map[string]i18n.Language
	Collator() *collate.Collator
}

// App controls the player process.
type App interface {
	HasSingleInstanceLock() bool
	RequestSingleInstanceLock() error
	ReleaseSingleInstanceLock() error
	SetLoginItem(openAtLogin bool) error
	Restart()
	Quit()
}

// Applier installs a tree as the active menu.
type Applier interface {
	Apply(tree []menu.Node) *menu.Menu
}
