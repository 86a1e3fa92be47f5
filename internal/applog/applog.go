// Package applog configures the process-wide structured logger used by
// every CLI stage.
package applog

import (
	"log/slog"
	"os"
)

// Setup installs a slog default logger at the given level ("debug",
// "info", "warn", "error") writing either "json" or text-formatted lines
// to stderr, so stdout stays free for result rows.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// WithStage returns a logger tagged with the calling CLI stage's name
// ("tokenize", "buildindex", "search", "freq").
func WithStage(stage string) *slog.Logger {
	return slog.Default().With("stage", stage)
}

func parseLevel(level string) slog.Level {
	switch level {
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
