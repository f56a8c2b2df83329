package appmenu

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mchmarny/tunebar/pkg/i18n"
	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/plugin"
	"github.com/mchmarny/tunebar/pkg/window"
)

type fakeConfig struct {
	values  map[string]any
	plugins map[string]bool
	writes  int
	batches int
	edits   int
}

func newFakeConfig() *fakeConfig {
	return &fakeConfig{
		values: map[string]any{
			"options.appVisible": true,
		},
		plugins: map[string]bool{},
	}
}

func (c *fakeConfig) Bool(path string) bool {
	b, _ := c.values[path].(bool)
	return b
}

func (c *fakeConfig) String(path string) string {
	s, _ := c.values[path].(string)
	return s
}

func (c *fakeConfig) Strings(path string) []string {
	s, _ := c.values[path].([]string)
	return s
}

func (c *fakeConfig) Set(path string, value any) error {
	c.writes++
	c.values[path] = value
	return nil
}

func (c *fakeConfig) SetMany(values map[string]any) error {
	c.batches++
	for k, v := range values {
		c.writes++
		c.values[k] = v
	}
	return nil
}

func (c *fakeConfig) SetMenuOption(path string, value any) error {
	return c.Set(path, value)
}

func (c *fakeConfig) PluginEnabled(id string) bool { return c.plugins[id] }

func (c *fakeConfig) EnablePlugin(id string) error {
	c.writes++
	c.plugins[id] = true
	return nil
}

func (c *fakeConfig) DisablePlugin(id string) error {
	c.writes++
	c.plugins[id] = false
	return nil
}

func (c *fakeConfig) Edit() error {
	c.edits++
	return nil
}

type fakePlugins struct {
	names         map[string]string
	contributions map[string][]menu.Node
	enabled       func(id string) bool
}

func (p *fakePlugins) Names() map[string]string {
	out := make(map[string]string, len(p.names))
	for k, v := range p.names {
		out[k] = v
	}
	return out
}

func (p *fakePlugins) Contributions(window.Window, plugin.RefreshFunc) map[string][]menu.Node {
	out := map[string][]menu.Node{}
	for id, nodes := range p.contributions {
		if p.enabled(id) {
			out[id] = nodes
		}
	}
	return out
}

type fakeApp struct {
	locked    bool
	loginItem bool
	restarts  int
	quits     int
}

func (a *fakeApp) HasSingleInstanceLock() bool { return a.locked }

func (a *fakeApp) RequestSingleInstanceLock() error {
	a.locked = true
	return nil
}

func (a *fakeApp) ReleaseSingleInstanceLock() error {
	a.locked = false
	return nil
}

func (a *fakeApp) SetLoginItem(on bool) error {
	a.loginItem = on
	return nil
}

func (a *fakeApp) Restart() { a.restarts++ }
func (a *fakeApp) Quit()    { a.quits++ }

type fakeWindow struct {
	mu sync.Mutex

	promptValue string
	promptOK    bool
	prompts     []window.Prompt

	openPaths []string
	dialogs   []window.OpenDialog

	messages []window.MessageBox

	url       string
	clipboard string

	canBack, canForward bool
	backs, forwards     int

	alwaysOnTop bool
	devTools    bool

	notifications []string
}

func (w *fakeWindow) ShowMessageBox(_ context.Context, box window.MessageBox) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, box)
	return 0, nil
}

func (w *fakeWindow) ShowOpenDialog(_ context.Context, d window.OpenDialog) ([]string, error) {
	w.dialogs = append(w.dialogs, d)
	return w.openPaths, nil
}

func (w *fakeWindow) Prompt(_ context.Context, p window.Prompt) (string, bool, error) {
	w.prompts = append(w.prompts, p)
	return w.promptValue, w.promptOK, nil
}

func (w *fakeWindow) WriteClipboard(_ context.Context, text string) error {
	w.clipboard = text
	return nil
}

func (w *fakeWindow) URL(context.Context) (string, error) { return w.url, nil }

func (w *fakeWindow) CanGoBack(context.Context) (bool, error)    { return w.canBack, nil }
func (w *fakeWindow) CanGoForward(context.Context) (bool, error) { return w.canForward, nil }

func (w *fakeWindow) GoBack(context.Context) error {
	w.backs++
	return nil
}

func (w *fakeWindow) GoForward(context.Context) error {
	w.forwards++
	return nil
}

func (w *fakeWindow) SetAlwaysOnTop(_ context.Context, on bool) error {
	w.alwaysOnTop = on
	return nil
}

func (w *fakeWindow) IsDevToolsOpened(context.Context) (bool, error) { return w.devTools, nil }

func (w *fakeWindow) OpenDevTools(context.Context) error {
	w.devTools = true
	return nil
}

func (w *fakeWindow) CloseDevTools(context.Context) error {
	w.devTools = false
	return nil
}

func (w *fakeWindow) Notify(_ context.Context, channel string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notifications = append(w.notifications, channel)
	return nil
}

type fakeApplier struct {
	trees [][]menu.Node
}

func (a *fakeApplier) Apply(tree []menu.Node) *menu.Menu {
	a.trees = append(a.trees, tree)
	return &menu.Menu{Revision: uint64(len(a.trees))}
}

type harness struct {
	cfg       *fakeConfig
	plugins   *fakePlugins
	tr        *i18n.Resolver
	app       *fakeApp
	win       *fakeWindow
	applier   *fakeApplier
	builder   *Builder
	refresher *Refresher
}

func newHarness(t *testing.T, platform string) *harness {
	t.Helper()

	tr, err := i18n.New()
	require.NoError(t, err)

	h := &harness{
		cfg:     newFakeConfig(),
		tr:      tr,
		app:     &fakeApp{},
		win:     &fakeWindow{},
		applier: &fakeApplier{},
	}
	h.plugins = &fakePlugins{
		names:         map[string]string{},
		contributions: map[string][]menu.Node{},
		enabled:       h.cfg.PluginEnabled,
	}
	h.builder = NewBuilder(h.cfg, h.plugins, h.tr, h.app, platform)
	h.refresher = NewRefresher(h.builder, h.applier, h.win, nil)
	return h
}

func (h *harness) build() []menu.Node {
	return h.builder.Build(h.win)
}

// node walks the tree by labels, one per level.
func node(t *testing.T, tree []menu.Node, labels ...string) menu.Node {
	t.Helper()

	var cur menu.Node
	nodes := tree
	for _, label := range labels {
		found := false
		for _, n := range nodes {
			if n.Label == label {
				cur, nodes, found = n, n.Children, true
				break
			}
		}
		require.Truef(t, found, "no menu entry %q in path %v", label, labels)
	}
	return cur
}

// click runs the node's handler the way the installer does: checkboxes are
// flipped and radios checked first. It returns the final item state.
func click(t *testing.T, n menu.Node) *menu.Item {
	t.Helper()
	require.NotNil(t, n.Handler, "entry %q has no handler", n.Label)

	item := &menu.Item{Type: n.Kind, Label: n.Label, Checked: n.Checked, Group: n.Group}
	switch n.Kind {
	case menu.KindCheckbox:
		item.Checked = !item.Checked
	case menu.KindRadio:
		item.Checked = true
	}
	require.NoError(t, n.Handler(context.Background(), item))
	return item
}

// checkedIn returns the labels of the checked radios among nodes.
func checkedIn(nodes []menu.Node) []string {
	var out []string
	for _, n := range nodes {
		if n.Kind == menu.KindRadio && n.Checked {
			out = append(out, n.Label)
		}
	}
	return out
}
