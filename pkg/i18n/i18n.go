// Package i18n resolves localized strings from YAML language bundles.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a key is missing from the active bundle.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var locales embed.FS

// ErrUnknownLanguage is returned when selecting a language with no bundle.
var ErrUnknownLanguage = errors.New("unknown language")

// Language describes a bundle.
type Language struct {
	Name      string `yaml:"name"`
	LocalName string `yaml:"local-name"`
}

type bundle struct {
	lang    Language
	tag     language.Tag
	strings map[string]any
}

// Resolver maps keys to strings of the active language. It is safe for
// concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	bundles map[string]*bundle
	active  string
}

// New loads the bundles shipped with the binary.
func New() (*Resolver, error) {
	return Load(locales, "locales")
}

// Load reads every <id>.yaml file in dir. A bundle for DefaultLanguage
// must be present.
func Load(fsys fs.FS, dir string) (*Resolver, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list language bundles: %w", err)
	}

	r := &Resolver{bundles: make(map[string]*bundle), active: DefaultLanguage}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".yaml")
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle %s: %w", id, err)
		}
		b, err := parseBundle(id, raw)
		if err != nil {
			return nil, err
		}
		r.bundles[id] = b
	}

	if _, ok := r.bundles[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("%w: missing default bundle %q", ErrUnknownLanguage, DefaultLanguage)
	}
	return r, nil
}

func parseBundle(id string, raw []byte) (*bundle, error) {
	var doc struct {
		Language Language `yaml:"language"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", id, err)
	}
	strs := map[string]any{}
	if err := yaml.Unmarshal(raw, &strs); err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", id, err)
	}
	tag, err := language.Parse(id)
	if err != nil {
		tag = language.Und
	}
	if doc.Language.Name == "" {
		doc.Language.Name = id
	}
	return &bundle{lang: doc.Language, tag: tag, strings: strs}, nil
}

// T returns the string for key in the active language, then in the
// default language, then the key itself.
func (r *Resolver) T(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.bundles[r.active].lookup(key); ok {
		return s
	}
	if s, ok := r.bundles[DefaultLanguage].lookup(key); ok {
		return s
	}
	return key
}

func (b *bundle) lookup(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	var cur any = b.strings
	for _, part := range strings.Split(key, ".") {
		table, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = table[part]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// SetLanguage switches the active bundle.
func (r *Resolver) SetLanguage(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bundles[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
	}
	r.active = id
	return nil
}

// Language returns the active language id.
func (r *Resolver) Language() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Languages returns every available bundle by id.
func (r *Resolver) Languages() map[string]Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Language, len(r.bundles))
	for id, b := range r.bundles {
		out[id] = b.lang
	}
	return out
}

// IDs returns the available language ids in sorted order.
func (r *Resolver) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.bundles))
	for id := range r.bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Match returns the id of the bundle that best fits the BCP 47 tags, or
// DefaultLanguage when none does.
func (r *Resolver) Match(tags ...string) string {
	ids := r.IDs()
	supported := make([]language.Tag, 0, len(ids)+1)
	order := make([]string, 0, len(ids)+1)

	// the first supported tag is the matcher's fallback
	supported = append(supported, language.Make(DefaultLanguage))
	order = append(order, DefaultLanguage)
	r.mu.RLock()
	for _, id := range ids {
		if id == DefaultLanguage {
			continue
		}
		supported = append(supported, r.bundles[id].tag)
		order = append(order, id)
	}
	r.mu.RUnlock()

	desired := make([]language.Tag, 0, len(tags))
	for _, t := range tags {
		tag, err := language.Parse(strings.ReplaceAll(t, "_", "-"))
		if err != nil {
			continue
		}
		desired = append(desired, tag)
	}
	if len(desired) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No {
		return DefaultLanguage
	}
	return order[idx]
}

// Collator returns a case-insensitive collator for the active language.
// Collators are not safe for concurrent use, so each call makes a new one.
func (r *Resolver) Collator() *collate.Collator {
	r.mu.RLock()
	tag := language.Und
	if b, ok := r.bundles[r.active]; ok {
		tag = b.tag
	}
	r.mu.RUnlock()

	return collate.New(tag, collate.IgnoreCase)
}
