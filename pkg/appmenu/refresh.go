package appmenu

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mchmarny/tunebar/pkg/config"
	"github.com/mchmarny/tunebar/pkg/metric"
	"github.com/mchmarny/tunebar/pkg/plugin"
	"github.com/mchmarny/tunebar/pkg/window"
)

// InAppMenuChannel is the message that tells the in-content menu to
// render again.
const InAppMenuChannel = "refresh-in-app-menu"

// Refresher rebuilds and reinstalls the menu. Refreshes run one at a time
// in call order.
type Refresher struct {
	mu       sync.Mutex
	builder  *Builder
	applier  Applier
	win      window.Window
	overlay  bool
	rebuilds metric.IncrementalCounter
}

// NewRefresher wires the builder to reinstall through applier. Whether the
// in-app menu overlay gets notified is decided here, once, from the
// plugin's state at launch.
func NewRefresher(b *Builder, applier Applier, win window.Window, rebuilds metric.IncrementalCounter) *Refresher {
	r := &Refresher{
		builder:  b,
		applier:  applier,
		win:      win,
		overlay:  b.cfg.PluginEnabled(plugin.InAppMenu),
		rebuilds: rebuilds,
	}
	b.refresh = r.Refresh
	return r
}

// Refresh builds the tree, installs it and notifies the overlay.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.applier.Apply(r.builder.Build(r.win))
	if r.rebuilds != nil {
		r.rebuilds.Increment()
	}
	slog.Info("menu refreshed", "revision", m.Revision)

	if !r.overlay {
		return nil
	}
	if err := r.win.Notify(ctx, InAppMenuChannel); err != nil {
		// the overlay fetches the menu itself when it connects
		slog.Warn("failed to notify in-app menu", "error", err)
	}
	return nil
}

// ConfigChanged brings the localizer in line with the stored language and
// refreshes. It is meant for changes made outside the menu, such as a
// hand-edited config file. An unknown stored language keeps the current one.
func (r *Refresher) ConfigChanged(ctx context.Context) error {
	tr := r.builder.tr
	if lang := r.builder.cfg.String(config.KeyLanguage); lang != "" && lang != tr.Language() {
		if err := tr.SetLanguage(lang); err != nil {
			slog.Warn("ignoring stored language", "language", lang, "error", err)
		} else {
			slog.Info("language changed", "language", lang)
		}
	}
	return r.Refresh(ctx)
}
