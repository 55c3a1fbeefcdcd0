// Package debug carries the --debug switch on the context and installs the
// process-wide slog logger.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled or disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether debug mode is enabled in ctx.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Level returns the log level for the given debug setting: Debug when
// enabled, Warn otherwise.
func Level(enabled bool) slog.Level {
	if enabled {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger returns a text logger writing to w at the level for enabled.
func NewLogger(w io.Writer, enabled bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(enabled),
	}))
}

// SetupLogger installs a stderr text logger as the slog default.
func SetupLogger(enabled bool) {
	slog.SetDefault(NewLogger(os.Stderr, enabled))
}
