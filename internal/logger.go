package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process logger: structured JSON in prod, readable
// text everywhere else. Prod timestamps are normalized to RFC 3339 with
// nanoseconds for the log pipeline.
func NewLogger(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}

	if env != "prod" {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
		}
		return a
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// parseLogLevel maps the configured level name to a slog level, falling
// back to info with a warning when the name is not recognized.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "", "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Default().Warn("unknown log level, using info", slog.String("value", level))
		return slog.LevelInfo
	}
}
