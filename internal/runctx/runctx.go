// Package runctx carries per-evaluation values through context.Context: the
// structured logger and the manual-gate resume flag.
//
// Overrides are scoped by construction. WithResume derives a child context and
// leaves the parent untouched, so the flag is "restored" as soon as the caller
// goes back to using the parent, even if the evaluation failed. Concurrent
// evaluations holding different contexts never observe each other's flags.
package runctx

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key int

const (
	loggerKey key = iota
	resumeKey
)

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger extracts the slog.Logger from a context, falling back to the
// process default when none was attached.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithResume returns a child context whose resume flag is set to resumed.
func WithResume(ctx context.Context, resumed bool) context.Context {
	return context.WithValue(ctx, resumeKey, resumed)
}

// Resumed reports whether the resume flag is set. Absent means false.
func Resumed(ctx context.Context) bool {
	resumed, _ := ctx.Value(resumeKey).(bool)
	return resumed
}
