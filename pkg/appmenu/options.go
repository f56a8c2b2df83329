package appmenu

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mchmarny/tunebar/pkg/config"
	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/window"
)

// StartingPages are the pages the player can open on launch, in menu order.
var StartingPages = []string{
	"Default",
	"Home",
	"Explore",
	"New Releases",
	"Charts",
	"Moods & Genres",
	"Library",
	"Playlists",
	"Songs",
	"Albums",
	"Artists",
	"Subscribed Artists",
	"Uploads",
}

// Like button visibility values.
const (
	LikeButtonsDefault = ""
	LikeButtonsForce   = "force"
	LikeButtonsHide    = "hide"
)

// Radio group names.
const (
	groupStartingPage = "starting-page"
	groupLikeButtons  = "like-buttons"
	groupTheme        = "theme"
	groupTray         = "tray"
	groupLanguage     = "language"
)

const (
	optionsKey  = "main.menu.options.submenu."
	tweaksKey   = optionsKey + "visual-tweaks.submenu."
	trayKey     = optionsKey + "tray.submenu."
	advancedKey = optionsKey + "advanced-options.submenu."
)

// optionCheckbox binds a checkbox to a boolean option. after runs once the
// option is stored.
func (b *Builder) optionCheckbox(label, path string, after func(ctx context.Context, checked bool) error) menu.Node {
	return menu.Checkbox(label, b.cfg.Bool(path), func(ctx context.Context, item *menu.Item) error {
		if err := b.cfg.SetMenuOption(path, item.Checked); err != nil {
			return err
		}
		if after != nil {
			return after(ctx, item.Checked)
		}
		return nil
	})
}

func (b *Builder) optionItems(win window.Window) []menu.Node {
	items := []menu.Node{
		b.optionCheckbox(b.t(optionsKey+"auto-update"), config.KeyAutoUpdates, nil),
		b.optionCheckbox(b.t(optionsKey+"resume-on-start"), config.KeyResumeOnStart, nil),
		menu.Submenu(b.t(optionsKey+"starting-page.label"), b.startingPageItems()...),
		menu.Submenu(b.t(optionsKey+"visual-tweaks.label"), b.visualTweakItems(win)...),
		b.optionCheckbox(b.t(optionsKey+"single-instance-lock"), config.KeySingleInstanceLock, func(_ context.Context, checked bool) error {
			held := b.app.HasSingleInstanceLock()
			switch {
			case !checked && held:
				return b.app.ReleaseSingleInstanceLock()
			case checked && !held:
				return b.app.RequestSingleInstanceLock()
			}
			return nil
		}),
		b.optionCheckbox(b.t(optionsKey+"always-on-top"), config.KeyAlwaysOnTop, func(ctx context.Context, checked bool) error {
			return win.SetAlwaysOnTop(ctx, checked)
		}),
	}
	items = append(items, b.PlatformExtras(b.platform, win)...)
	items = append(items,
		menu.Submenu(b.t(optionsKey+"tray.label"), b.trayItems()...),
		menu.Separator(),
		menu.Submenu(b.t(optionsKey+"language.label"), b.languageItems(win)...),
		menu.Submenu(b.t(optionsKey+"advanced-options.label"), b.advancedItems(win)...),
	)
	return items
}

// PlatformExtras returns the option entries that only exist on some
// platforms: start-at-login on darwin and windows, hide-menu everywhere
// except darwin.
func (b *Builder) PlatformExtras(platform string, win window.Window) []menu.Node {
	var items []menu.Node
	if platform == PlatformDarwin || platform == PlatformWindows {
		items = append(items, b.optionCheckbox(b.t(optionsKey+"start-at-login"), config.KeyStartAtLogin, func(_ context.Context, checked bool) error {
			return b.app.SetLoginItem(checked)
		}))
	}
	if platform != PlatformDarwin {
		items = append(items, b.optionCheckbox(b.t(optionsKey+"hide-menu.label"), config.KeyHideMenu, func(ctx context.Context, checked bool) error {
			if !checked || b.cfg.Bool(config.KeyHideMenuWarned) {
				return nil
			}
			if _, err := win.ShowMessageBox(ctx, window.MessageBox{
				Type:    "info",
				Title:   b.t(optionsKey + "hide-menu.dialog.title"),
				Message: b.t(optionsKey + "hide-menu.dialog.message"),
			}); err != nil {
				return err
			}
			return b.cfg.Set(config.KeyHideMenuWarned, true)
		}))
	}
	return items
}

func (b *Builder) startingPageItems() []menu.Node {
	current := b.cfg.String(config.KeyStartingPage)
	items := []menu.Node{
		menu.Radio(groupStartingPage, b.t(optionsKey+"starting-page.unset"), current == "", b.setOption(config.KeyStartingPage, "")),
	}
	for _, page := range StartingPages {
		items = append(items, menu.Radio(groupStartingPage, page, current == page, b.setOption(config.KeyStartingPage, page)))
	}
	return items
}

func (b *Builder) setOption(path string, value any) menu.Handler {
	return func(context.Context, *menu.Item) error {
		return b.cfg.SetMenuOption(path, value)
	}
}

func (b *Builder) visualTweakItems(win window.Window) []menu.Node {
	likes := b.cfg.String(config.KeyLikeButtons)
	themes := b.cfg.Strings(config.KeyThemes)

	return []menu.Node{
		b.optionCheckbox(b.t(tweaksKey+"remove-upgrade-button"), config.KeyRemoveUpgradeButton, nil),
		menu.Submenu(b.t(tweaksKey+"like-buttons.label"),
			menu.Radio(groupLikeButtons, b.t(tweaksKey+"like-buttons.default"), likes == LikeButtonsDefault, b.setOption(config.KeyLikeButtons, LikeButtonsDefault)),
			menu.Radio(groupLikeButtons, b.t(tweaksKey+"like-buttons.force-show"), likes == LikeButtonsForce, b.setOption(config.KeyLikeButtons, LikeButtonsForce)),
			menu.Radio(groupLikeButtons, b.t(tweaksKey+"like-buttons.hide"), likes == LikeButtonsHide, b.setOption(config.KeyLikeButtons, LikeButtonsHide)),
		),
		menu.Submenu(b.t(tweaksKey+"theme.label"),
			menu.Radio(groupTheme, b.t(tweaksKey+"theme.submenu.no-theme"), len(themes) == 0, b.setOption(config.KeyThemes, []string{})),
			menu.Radio(groupTheme, b.t(tweaksKey+"theme.submenu.import-css-file"), len(themes) > 0, b.importTheme(win)),
		),
	}
}

// importTheme replaces the theme list with the picked CSS files. The list
// doubles as the radio state, so a multi-file pick still shows as one
// checked item.
func (b *Builder) importTheme(win window.Window) menu.Handler {
	return func(ctx context.Context, _ *menu.Item) error {
		paths, err := win.ShowOpenDialog(ctx, window.OpenDialog{
			Filters: []window.FileFilter{{
				Name:       b.t(tweaksKey + "theme.dialog.css-file"),
				Extensions: []string{"css"},
			}},
			Properties: []string{window.PropOpenFile, window.PropMultiSelections},
		})
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			// nothing picked: keep the stored list and show it again
			return b.refresh(ctx)
		}
		slog.Info("theme imported", "files", len(paths))
		return b.cfg.SetMenuOption(config.KeyThemes, paths)
	}
}

func (b *Builder) trayItems() []menu.Node {
	tray := b.cfg.Bool(config.KeyTray)
	visible := b.cfg.Bool(config.KeyAppVisible)

	mode := func(tray, visible bool) menu.Handler {
		return func(context.Context, *menu.Item) error {
			return b.cfg.SetMany(map[string]any{
				config.KeyTray:       tray,
				config.KeyAppVisible: visible,
			})
		}
	}

	return []menu.Node{
		menu.Radio(groupTray, b.t(trayKey+"disabled"), !tray, mode(false, true)),
		menu.Radio(groupTray, b.t(trayKey+"enabled-and-show-app"), tray && visible, mode(true, true)),
		menu.Radio(groupTray, b.t(trayKey+"enabled-and-hide-app"), tray && !visible, mode(true, false)),
		menu.Separator(),
		b.optionCheckbox(b.t(trayKey+"play-pause-on-click"), config.KeyTrayClickPlayPause, nil),
	}
}

func (b *Builder) languageItems(win window.Window) []menu.Node {
	languages := b.tr.Languages()
	ids := make([]string, 0, len(languages))
	for id := range languages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	current := b.cfg.String(config.KeyLanguage)
	if _, ok := languages[current]; !ok {
		current = b.tr.Language()
	}

	items := make([]menu.Node, 0, len(ids))
	for _, id := range ids {
		lang := languages[id]
		label := lang.Name
		if lang.LocalName != "" && lang.LocalName != lang.Name {
			label = fmt.Sprintf("%s (%s)", lang.Name, lang.LocalName)
		}
		items = append(items, menu.Radio(groupLanguage, label, id == current, b.selectLanguage(win, id)))
	}
	return items
}

func (b *Builder) selectLanguage(win window.Window, id string) menu.Handler {
	return func(ctx context.Context, _ *menu.Item) error {
		if err := b.cfg.SetMenuOption(config.KeyLanguage, id); err != nil {
			return err
		}
		if err := b.tr.SetLanguage(id); err != nil {
			return err
		}
		slog.Info("language changed", "language", id)
		if err := b.refresh(ctx); err != nil {
			return err
		}
		_, err := win.ShowMessageBox(ctx, window.MessageBox{
			Type:    "info",
			Title:   b.t(optionsKey + "language.dialog.title"),
			Message: b.t(optionsKey + "language.dialog.message"),
		})
		return err
	}
}

func (b *Builder) advancedItems(win window.Window) []menu.Node {
	return []menu.Node{
		menu.Checkbox(b.t(advancedKey+"set-proxy.label"), b.cfg.String(config.KeyProxy) != "", b.setProxy(win)),
		b.optionCheckbox(b.t(advancedKey+"override-user-agent"), config.KeyOverrideUserAgent, nil),
		b.optionCheckbox(b.t(advancedKey+"disable-hardware-acceleration"), config.KeyDisableHardwareAcceleration, nil),
		b.optionCheckbox(b.t(advancedKey+"restart-on-config-changes"), config.KeyRestartOnConfigChanges, nil),
		b.optionCheckbox(b.t(advancedKey+"auto-reset-app-cache"), config.KeyAutoResetAppCache, nil),
		menu.Separator(),
		b.devToolsItem(win),
		menu.Action(b.t(advancedKey+"edit-config-json"), func(context.Context, *menu.Item) error {
			return b.cfg.Edit()
		}),
	}
}

// setProxy asks for the proxy address. Confirming stores it, checked when
// non-empty; cancelling undoes the toggle and stores nothing.
func (b *Builder) setProxy(win window.Window) menu.Handler {
	return func(ctx context.Context, item *menu.Item) error {
		value, ok, err := win.Prompt(ctx, window.Prompt{
			Title:       b.t(advancedKey + "set-proxy.prompt.title"),
			Label:       b.t(advancedKey + "set-proxy.prompt.label"),
			Value:       b.cfg.String(config.KeyProxy),
			Placeholder: b.t(advancedKey + "set-proxy.prompt.placeholder"),
			InputType:   "url",
		})
		if err != nil || !ok {
			item.Checked = !item.Checked
			return err
		}
		if err := b.cfg.SetMenuOption(config.KeyProxy, value); err != nil {
			item.Checked = !item.Checked
			return err
		}
		item.Checked = value != ""
		slog.Info("proxy updated", "enabled", item.Checked)
		return nil
	}
}

// devToolsItem uses the host role except on darwin, where the role is not
// available and the window is asked directly.
func (b *Builder) devToolsItem(win window.Window) menu.Node {
	label := b.t(advancedKey + "toggle-dev-tools")
	if b.platform != PlatformDarwin {
		return menu.RoleItem(menu.RoleToggleDevTools, label)
	}
	return menu.Action(label, func(ctx context.Context, _ *menu.Item) error {
		opened, err := win.IsDevToolsOpened(ctx)
		if err != nil {
			return err
		}
		if opened {
			return win.CloseDevTools(ctx)
		}
		return win.OpenDevTools(ctx)
	})
}
