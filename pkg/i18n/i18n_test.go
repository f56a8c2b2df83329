package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoadsShippedBundles(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "en", "fr"}, r.IDs())
	assert.Equal(t, DefaultLanguage, r.Language())

	langs := r.Languages()
	assert.Equal(t, Language{Name: "German", LocalName: "Deutsch"}, langs["de"])
	assert.Equal(t, "English", langs["en"].Name)
}

func TestTFallsBack(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Equal(t, "Options", r.T("main.menu.options.label"))

	require.NoError(t, r.SetLanguage("fr"))
	assert.Equal(t, "Extensions", r.T("main.menu.plugins.label"))
	// missing in fr, present in en
	assert.Equal(t, "Theme", r.T("main.menu.options.submenu.visual-tweaks.submenu.theme.label"))
	// missing everywhere
	assert.Equal(t, "main.menu.nope", r.T("main.menu.nope"))
	// a table, not a string
	assert.Equal(t, "main.menu", r.T("main.menu"))
}

func TestSetLanguageUnknown(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	require.NoError(t, r.SetLanguage("de"))

	assert.ErrorIs(t, r.SetLanguage("xx"), ErrUnknownLanguage)
	assert.Equal(t, "de", r.Language())
}

func TestMatch(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Equal(t, "de", r.Match("de_AT"))
	assert.Equal(t, "fr", r.Match("fr-CA"))
	assert.Equal(t, "en", r.Match("en-GB"))
	assert.Equal(t, DefaultLanguage, r.Match("ja-JP"))
	assert.Equal(t, DefaultLanguage, r.Match())
	assert.Equal(t, DefaultLanguage, r.Match("!!"))
}

func TestCollatorIgnoresCase(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	c := r.Collator()
	assert.Negative(t, c.CompareString("adblocker", "Discord"))
	assert.Positive(t, c.CompareString("Shortcuts", "discord"))
	assert.Zero(t, c.CompareString("Tray", "tray"))
}

func TestLoadRequiresDefaultBundle(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/de.yaml": {Data: []byte("language:\n  name: German\n")},
	}
	_, err := Load(fsys, "locales")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("language: [\n")},
	}
	_, err := Load(fsys, "locales")
	assert.Error(t, err)
}

func TestLoadDefaultsLanguageName(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml":   {Data: []byte("greeting: hi\n")},
		"locales/notes.txt": {Data: []byte("ignored")},
	}
	r, err := Load(fsys, "locales")
	require.NoError(t, err)

	assert.Equal(t, []string{"en"}, r.IDs())
	assert.Equal(t, "en", r.Languages()["en"].Name)
	assert.Equal(t, "hi", r.T("greeting"))
}
