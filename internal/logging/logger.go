package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options controls how the application logger is built.
type Options struct {
	Level slog.Level
	JSON  bool
}

// New creates a configured application logger.
// It writes to Stderr (to keep Stdout free for reports and JSON output).
// It standardizes common keys (e.g., "error" -> "err").
func New(opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, hopts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, hopts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a CLI level string to a slog.Level. Unknown values fall
// back to info rather than failing the whole run.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
