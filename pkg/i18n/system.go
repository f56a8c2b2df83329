package i18n

import (
	"log/slog"

	"github.com/jeandeaual/go-locale"
)

// SystemLanguage returns the bundle id matching the OS user locales.
func (r *Resolver) SystemLanguage() string {
	locales, err := locale.GetLocales()
	if err != nil {
		slog.Warn("failed to read system locales", "error", err)
		return DefaultLanguage
	}
	return r.Match(locales...)
}
