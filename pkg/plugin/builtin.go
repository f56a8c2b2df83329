package plugin

import (
	"context"
	"log/slog"

	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/window"
)

// InAppMenu is the plugin that mirrors the menu inside the page content.
const InAppMenu = "in-app-menu"

// Builtins returns the plugins shipped with the player.
func Builtins() []Descriptor {
	return []Descriptor{
		{ID: InAppMenu},
		{ID: "adblocker", Contribute: adblockerMenu},
		{ID: "notifications", Contribute: notificationsMenu},
		{ID: "downloader", Contribute: downloaderMenu},
		{ID: "discord", Contribute: discordMenu},
		{ID: "shortcuts", Contribute: shortcutsMenu},
	}
}

// toggle binds a checkbox to a boolean plugin option.
func toggle(pc Context, key, option string) menu.Node {
	return menu.Checkbox(pc.T(key), pc.Config.Bool(option), func(_ context.Context, item *menu.Item) error {
		return pc.Config.Set(option, item.Checked)
	})
}

func adblockerMenu(pc Context) []menu.Node {
	return []menu.Node{
		toggle(pc, "plugins.adblocker.menu.cache-lists", "cache"),
	}
}

var urgencyLevels = []string{"low", "normal", "high"}

func notificationsMenu(pc Context) []menu.Node {
	current := pc.Config.String("urgency")
	if current == "" {
		current = "normal"
	}

	levels := make([]menu.Node, 0, len(urgencyLevels))
	for _, level := range urgencyLevels {
		levels = append(levels, menu.Radio("notifications.urgency",
			pc.T("plugins.notifications.menu.urgency."+level),
			current == level,
			func(context.Context, *menu.Item) error {
				return pc.Config.Set("urgency", level)
			}))
	}

	return []menu.Node{
		toggle(pc, "plugins.notifications.menu.interactive", "interactive"),
		menu.Submenu(pc.T("plugins.notifications.menu.urgency.label"), levels...),
	}
}

func downloaderMenu(pc Context) []menu.Node {
	return []menu.Node{
		menu.Action(pc.T("plugins.downloader.menu.choose-download-folder"), func(ctx context.Context, _ *menu.Item) error {
			paths, err := pc.Window.ShowOpenDialog(ctx, window.OpenDialog{
				Properties: []string{window.PropOpenDirectory},
			})
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return nil
			}
			slog.Info("download folder selected", "path", paths[0])
			return pc.Config.Set("downloadFolder", paths[0])
		}),
	}
}

func discordMenu(pc Context) []menu.Node {
	return []menu.Node{
		toggle(pc, "plugins.discord.menu.auto-reconnect", "autoReconnect"),
	}
}

func shortcutsMenu(pc Context) []menu.Node {
	return []menu.Node{
		toggle(pc, "plugins.shortcuts.menu.override-media-keys", "overrideMediaKeys"),
	}
}
