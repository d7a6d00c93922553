// Package logging wraps slog with the field names used across searchfields.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with searchfields-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSON creates a Logger that writes JSON lines to stderr.
func NewJSON(level slog.Level) *Logger {
	return New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewText creates a Logger that writes human-readable lines to stderr.
func NewText(level slog.Level) *Logger {
	return New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Noop discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, nil))
}

// OrNoop returns l, or a discarding logger when l is nil.
func OrNoop(l *Logger) *Logger {
	if l == nil {
		return Noop()
	}
	return l
}

// ParseLevel maps a flag value to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// LogValidation logs the outcome of a mapping validation run.
func (l *Logger) LogValidation(ctx context.Context, index string, samples int, err error) {
	if err != nil {
		l.WarnContext(ctx, "mapping validation failed",
			"index", index,
			"samples", samples,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "mapping validation passed",
		"index", index,
		"samples", samples,
	)
}

// LogMissingIndex logs a time partition that no longer exists.
func (l *Logger) LogMissingIndex(ctx context.Context, index string) {
	l.InfoContext(ctx, "index not found, skipping", "index", index)
}

// LogDrift logs the result of a drift scan.
func (l *Logger) LogDrift(ctx context.Context, scanned, missing int) {
	if missing > 0 {
		l.WarnContext(ctx, "fields missing from schema",
			"indices", scanned,
			"total", missing,
		)
		return
	}
	l.DebugContext(ctx, "no schema drift", "indices", scanned)
}
