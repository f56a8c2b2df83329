package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/mchmarny/tunebar/pkg/metric"
)

// PlatformDarwin is the platform with a unified application menu bar.
const PlatformDarwin = "darwin"

// DefaultQueueSize is the number of clicks accepted ahead of dispatch.
const DefaultQueueSize = 64

var (
	// ErrItemNotFound is returned when a click references an unknown item.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrStaleMenu is returned when a click was made on a menu that has
	// since been replaced.
	ErrStaleMenu = errors.New("menu revision is stale")
)

// RoleHandler performs a host role that was clicked through the menu API
// instead of being handled by the host itself.
type RoleHandler func(ctx context.Context, role Role) error

// Installer holds the single process-wide active menu.
type Installer struct {
	mu       sync.RWMutex
	active   *Menu
	revision uint64

	title    string
	version  string
	platform string
	roles    RoleHandler
	clicks   metric.IncrementalCounter
	queue    chan clickRequest
}

// Option is a functional option for configuring the Installer.
type Option func(*Installer)

// WithTitle sets the application title used for the unified app submenu.
func WithTitle(title string) Option {
	return func(i *Installer) { i.title = title }
}

// WithVersion sets the version reported with the menu.
func WithVersion(version string) Option {
	return func(i *Installer) { i.version = version }
}

// WithPlatform sets the target platform (runtime.GOOS values).
func WithPlatform(platform string) Option {
	return func(i *Installer) { i.platform = platform }
}

// WithRoleHandler sets the callback for role items clicked via the API.
func WithRoleHandler(h RoleHandler) Option {
	return func(i *Installer) { i.roles = h }
}

// WithClickCounter counts clicks by item kind.
func WithClickCounter(c metric.IncrementalCounter) Option {
	return func(i *Installer) { i.clicks = c }
}

// NewInstaller creates an Installer with no active menu.
func NewInstaller(opts ...Option) *Installer {
	i := &Installer{title: "tunebar", queue: make(chan clickRequest, DefaultQueueSize)}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Apply converts the tree and installs it as the active menu, replacing
// any previous one. On darwin the application submenu is prepended.
func (i *Installer) Apply(tree []Node) *Menu {
	if i.platform == PlatformDarwin {
		tree = append([]Node{appSubmenu(i.title)}, tree...)
	}
	m := newMenu(i.title, i.version, tree)

	i.mu.Lock()
	i.revision++
	m.Revision = i.revision
	i.active = m
	i.mu.Unlock()

	slog.Debug("menu installed", "revision", m.Revision, "items", len(m.Items))
	return m
}

// Active returns the installed menu, or nil before the first Apply.
func (i *Installer) Active() *Menu {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.active
}

// Click dispatches a click on the item with the given ID in the active
// menu. Checkbox items are toggled and radio items checked before the
// handler runs. The handler receives a copy; its final Checked value is
// written back unless the menu was replaced meanwhile. When the handler
// fails, the checked state from before the click is restored.
func (i *Installer) Click(ctx context.Context, id string) error {
	return i.click(ctx, 0, id)
}

// click dispatches against the menu with the given revision, or against
// whatever menu is active when revision is zero.
func (i *Installer) click(ctx context.Context, revision uint64, id string) error {
	i.mu.Lock()
	m := i.active
	if m == nil {
		i.mu.Unlock()
		return ErrItemNotFound
	}
	if revision != 0 && m.Revision != revision {
		i.mu.Unlock()
		return fmt.Errorf("%w: clicked revision %d, active %d", ErrStaleMenu, revision, m.Revision)
	}
	item, ok := m.Lookup(id)
	if !ok {
		i.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	var touched []*Item
	switch item.Type {
	case KindCheckbox:
		touched = []*Item{item}
	case KindRadio:
		touched = m.group(item.Group)
	}
	before := make([]bool, len(touched))
	for n, t := range touched {
		before[n] = t.Checked
	}

	switch item.Type {
	case KindCheckbox:
		item.Checked = !item.Checked
	case KindRadio:
		for _, other := range touched {
			other.Checked = false
		}
		item.Checked = true
	}
	event := *item
	i.mu.Unlock()

	if i.clicks != nil {
		i.clicks.Increment(string(item.Type))
	}
	slog.Info("menu click", "id", id, "label", item.Label, "checked", event.Checked)

	var err error
	switch {
	case event.handler != nil:
		err = event.handler(ctx, &event)
	case event.Role != "" && i.roles != nil:
		err = i.roles(ctx, event.Role)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active != m {
		return err
	}
	if err != nil {
		for n, t := range touched {
			t.Checked = before[n]
		}
		return err
	}
	item.Checked = event.Checked
	return nil
}

// Run dispatches queued clicks one at a time in arrival order until ctx
// is done. Handlers get ctx.
func (i *Installer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-i.queue:
			if err := i.click(ctx, req.Revision, req.ID); err != nil {
				slog.Error("menu click failed", "id", req.ID, "revision", req.Revision, "error", err)
			}
		}
	}
}

// Handler returns an HTTP handler that responds with the active menu as
// JSON. The revision doubles as ETag so hosts can poll for changes.
func (i *Installer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i.mu.RLock()
		defer i.mu.RUnlock()

		if i.active == nil {
			http.Error(w, "menu not installed", http.StatusServiceUnavailable)
			return
		}

		etag := `"` + strconv.FormatUint(i.active.Revision, 10) + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(i.active); err != nil {
			slog.Error("failed to encode menu", "error", err)
		}
	})
}

type clickRequest struct {
	ID       string `json:"id"`
	Revision uint64 `json:"revision"`
}

// ClickHandler returns an HTTP handler the host posts clicks to. A click
// must name the revision of the menu it was made on; a mismatch answers
// 409 so the host fetches the menu again. Accepted clicks are queued for
// Run.
func (i *Installer) ClickHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req clickRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid click request", http.StatusBadRequest)
			return
		}

		i.mu.RLock()
		m := i.active
		i.mu.RUnlock()

		if m == nil {
			http.Error(w, "menu not installed", http.StatusServiceUnavailable)
			return
		}
		if req.Revision != m.Revision {
			http.Error(w, fmt.Sprintf("%s: active revision is %d", ErrStaleMenu, m.Revision), http.StatusConflict)
			return
		}
		if _, ok := m.Lookup(req.ID); !ok {
			http.Error(w, fmt.Sprintf("%s: %s", ErrItemNotFound, req.ID), http.StatusNotFound)
			return
		}

		select {
		case i.queue <- req:
			w.WriteHeader(http.StatusAccepted)
		default:
			http.Error(w, "click queue full", http.StatusServiceUnavailable)
		}
	})
}
