// Package plugin keeps the registered player plugins and collects the menu
// fragments they contribute.
package plugin

import (
	"context"
	"sort"

	"github.com/mchmarny/tunebar/pkg/config"
	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/window"
)

// RefreshFunc rebuilds and reinstalls the whole menu.
type RefreshFunc func(ctx context.Context) error

// Context is what a plugin sees while contributing its menu.
type Context struct {
	ID      string
	Config  *config.Scope
	Window  window.Window
	T       func(key string) string
	Refresh RefreshFunc
}

// Descriptor registers a plugin. Contribute is optional.
type Descriptor struct {
	ID         string
	Contribute func(pc Context) []menu.Node
}

// Translator resolves localized strings.
type Translator interface {
	T(key string) string
}

// Registry holds the installed plugins.
type Registry struct {
	plugins map[string]Descriptor
	tr      Translator
	store   *config.Store
}

// NewRegistry creates a registry of the given plugins.
func NewRegistry(store *config.Store, tr Translator, plugins ...Descriptor) *Registry {
	r := &Registry{
		plugins: make(map[string]Descriptor, len(plugins)),
		tr:      tr,
		store:   store,
	}
	for _, p := range plugins {
		r.plugins[p.ID] = p
	}
	return r
}

// IDs returns the registered plugin ids in lexical order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Name returns the localized display name, or the id when none exists.
func (r *Registry) Name(id string) string {
	key := "plugins." + id + ".name"
	if name := r.tr.T(key); name != "" && name != key {
		return name
	}
	return id
}

// Names maps every registered id to its display name.
func (r *Registry) Names() map[string]string {
	out := make(map[string]string, len(r.plugins))
	for id := range r.plugins {
		out[id] = r.Name(id)
	}
	return out
}

// Contributions returns the menu fragment of every enabled plugin that
// contributes one, built for the given window.
func (r *Registry) Contributions(win window.Window, refresh RefreshFunc) map[string][]menu.Node {
	out := make(map[string][]menu.Node)
	for id, p := range r.plugins {
		if p.Contribute == nil || !r.store.PluginEnabled(id) {
			continue
		}
		nodes := p.Contribute(Context{
			ID:      id,
			Config:  r.store.Sub("plugins." + id),
			Window:  win,
			T:       r.tr.T,
			Refresh: refresh,
		})
		if len(nodes) > 0 {
			out[id] = nodes
		}
	}
	return out
}
