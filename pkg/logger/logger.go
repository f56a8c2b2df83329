package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	// EnvVarLogFormat selects "json" (default) or "text" output.
	EnvVarLogFormat = "LOG_FORMAT"
)

// NewStructuredLogger creates a new structured logger writing to w with the
// specified level and format. Module name and version are included in the
// logger's context. AddSource is enabled for debug level logging only.
// Parameters:
//   - w: Destination of the log records.
//   - module: The name of the module/application using the logger.
//   - version: The version of the module/application (e.g., "v1.0.0").
//   - level: The log level as a string (e.g., "debug", "info", "warn", "error").
//   - format: "text" for human readable output, anything else for JSON.
func NewStructuredLogger(w io.Writer, module, version, level, format string) *slog.Logger {
	lev := ParseLogLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With("module", module, "version", version)
}

// SetDefaultLogger initializes the structured logger on stderr and sets it
// as the default logger. Level and format come from LOG_LEVEL and LOG_FORMAT.
func SetDefaultLogger(module, version string) {
	slog.SetDefault(NewStructuredLogger(os.Stderr, module, version,
		os.Getenv(EnvVarLogLevel), os.Getenv(EnvVarLogFormat)))
}

// ParseLogLevel converts a string representation of a log level into a slog.Level.
// Defaults to slog.LevelInfo for unrecognized strings.
func ParseLogLevel(level string) slog.Level {
	var lev slog.Level

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lev = slog.LevelDebug
	case "warn", "warning":
		lev = slog.LevelWarn
	case "error":
		lev = slog.LevelError
	default:
		lev = slog.LevelInfo
	}

	return lev
}
