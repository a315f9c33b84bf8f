package examine

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with examine-specific helpers so cache
// transitions are logged with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogOpen logs an open of the cached reader/searcher pair.
func (l *Logger) LogOpen(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index open failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index opened",
			"path", path,
		)
	}
}

// LogReopen logs a staleness refresh. replaced reports whether a new
// handle was installed.
func (l *Logger) LogReopen(ctx context.Context, path string, replaced bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index reopen failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index reopened",
			"path", path,
			"replaced", replaced,
		)
	}
}

// LogCloseError logs a best-effort close failure on a superseded handle.
func (l *Logger) LogCloseError(ctx context.Context, what string, err error) {
	l.WarnContext(ctx, "close failed",
		"what", what,
		"error", err,
	)
}
