// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup(cfg.Server.LogLevel)  // "debug", "info", "warn" or "error"
//
// Color is turned off when NO_COLOR is set. Attributes named in Redacted
// are logged as "[redacted]".
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Redacted lists attribute keys whose values are never written.
var Redacted = []string{"api_key", "secret", "token"}

// Setup configures colored logging on stderr at the named level.
func Setup(level string) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, ParseLevel(level), os.Getenv("NO_COLOR") != "")))
}

// NewHandler returns the tint handler used by Setup.
func NewHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  time.Kitchen,
		AddSource:   true,
		NoColor:     noColor,
		ReplaceAttr: redact,
	})
}

// ParseLevel maps a level name to a slog level (default: INFO).
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redact(groups []string, a slog.Attr) slog.Attr {
	for _, key := range Redacted {
		if a.Key == key {
			return slog.String(a.Key, "[redacted]")
		}
	}
	return a
}
