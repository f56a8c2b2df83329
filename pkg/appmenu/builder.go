package appmenu

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/plugin"
	"github.com/mchmarny/tunebar/pkg/window"
)

// Platforms with conditional menu entries.
const (
	PlatformDarwin  = "darwin"
	PlatformWindows = "windows"
	PlatformLinux   = "linux"
)

// Builder produces the menu tree. Building only reads state; the click
// handlers it attaches are the only writers.
type Builder struct {
	cfg      Config
	plugins  Plugins
	tr       Localizer
	app      App
	platform string
	refresh  plugin.RefreshFunc
}

// NewBuilder creates a Builder for the platform (runtime.GOOS values).
func NewBuilder(cfg Config, plugins Plugins, tr Localizer, app App, platform string) *Builder {
	return &Builder{
		cfg:      cfg,
		plugins:  plugins,
		tr:       tr,
		app:      app,
		platform: platform,
		refresh:  func(context.Context) error { return nil },
	}
}

func (b *Builder) t(key string) string {
	return b.tr.T(key)
}

// Build returns the top-level groups: Plugins, Options, View, Navigation
// and About.
func (b *Builder) Build(win window.Window) []menu.Node {
	return []menu.Node{
		menu.Submenu(b.t("main.menu.plugins.label"), b.pluginItems(win)...),
		menu.Submenu(b.t("main.menu.options.label"), b.optionItems(win)...),
		menu.Submenu(b.t("main.menu.view.label"), b.viewItems()...),
		menu.Submenu(b.t("main.menu.navigation.label"), b.navigationItems(win)...),
		menu.Submenu(b.t("main.menu.about"), menu.RoleItem(menu.RoleAbout, b.t("main.menu.about"))),
	}
}

func (b *Builder) pluginItems(win window.Window) []menu.Node {
	names := b.plugins.Names()
	ids := make([]string, 0, len(names))
	for id, name := range names {
		if name == "" {
			names[id] = id
		}
		ids = append(ids, id)
	}

	coll := b.tr.Collator()
	sort.SliceStable(ids, func(i, j int) bool {
		if c := coll.CompareString(names[ids[i]], names[ids[j]]); c != 0 {
			return c < 0
		}
		return ids[i] < ids[j]
	})

	contributions := b.plugins.Contributions(win, b.refresh)

	items := make([]menu.Node, 0, len(ids))
	for _, id := range ids {
		if !b.cfg.PluginEnabled(id) {
			items = append(items, menu.Checkbox(names[id], false, b.togglePlugin(id)))
			continue
		}
		children := []menu.Node{
			menu.Checkbox(b.t("main.menu.plugins.enabled"), true, b.togglePlugin(id)),
		}
		if fragment := contributions[id]; len(fragment) > 0 {
			children = append(children, menu.Separator())
			children = append(children, fragment...)
		}
		items = append(items, menu.Submenu(names[id], children...))
	}
	return items
}

// togglePlugin flips enablement. Either way the menu shape changes, so the
// whole menu is rebuilt.
func (b *Builder) togglePlugin(id string) menu.Handler {
	return func(ctx context.Context, item *menu.Item) error {
		var err error
		if item.Checked {
			err = b.cfg.EnablePlugin(id)
		} else {
			err = b.cfg.DisablePlugin(id)
		}
		if err != nil {
			return err
		}
		slog.Info("plugin toggled", "plugin", id, "enabled", item.Checked)
		return b.refresh(ctx)
	}
}

func (b *Builder) zoomAccelerators() (in, out string) {
	if b.platform == PlatformDarwin {
		return "Cmd+I", "Cmd+O"
	}
	return "Ctrl+I", "Ctrl+O"
}

func (b *Builder) viewItems() []menu.Node {
	zoomIn, zoomOut := b.zoomAccelerators()
	return []menu.Node{
		menu.RoleItem(menu.RoleReload, b.t("main.menu.view.submenu.reload")),
		menu.RoleItem(menu.RoleForceReload, b.t("main.menu.view.submenu.force-reload")),
		menu.Separator(),
		menu.RoleItem(menu.RoleZoomIn, b.t("main.menu.view.submenu.zoom-in")).WithAccelerator(zoomIn),
		menu.RoleItem(menu.RoleZoomOut, b.t("main.menu.view.submenu.zoom-out")).WithAccelerator(zoomOut),
		menu.RoleItem(menu.RoleResetZoom, b.t("main.menu.view.submenu.reset-zoom")),
		menu.Separator(),
		menu.RoleItem(menu.RoleToggleFullscreen, b.t("main.menu.view.submenu.toggle-fullscreen")),
	}
}

func (b *Builder) navigationItems(win window.Window) []menu.Node {
	return []menu.Node{
		menu.Action(b.t("main.menu.navigation.submenu.go-back"), func(ctx context.Context, _ *menu.Item) error {
			can, err := win.CanGoBack(ctx)
			if err != nil || !can {
				return err
			}
			return win.GoBack(ctx)
		}),
		menu.Action(b.t("main.menu.navigation.submenu.go-forward"), func(ctx context.Context, _ *menu.Item) error {
			can, err := win.CanGoForward(ctx)
			if err != nil || !can {
				return err
			}
			return win.GoForward(ctx)
		}),
		menu.Action(b.t("main.menu.navigation.submenu.copy-current-url"), func(ctx context.Context, _ *menu.Item) error {
			url, err := win.URL(ctx)
			if err != nil {
				return err
			}
			return win.WriteClipboard(ctx, url)
		}),
		menu.Action(b.t("main.menu.navigation.submenu.restart"), func(context.Context, *menu.Item) error {
			b.app.Restart()
			return nil
		}),
		menu.Action(b.t("main.menu.navigation.submenu.quit"), func(context.Context, *menu.Item) error {
			b.app.Quit()
			return nil
		}),
	}
}
