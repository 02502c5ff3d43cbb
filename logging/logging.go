// Package logging provides the slog wrapper used across the runtime.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a thin alias kept so call sites don't import log/slog directly.
type Logger = slog.Logger

// New builds a text-handler logger writing to w at the given level, the
// same handler shape the teacher wires up in main().
func New(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Default returns an info-level logger writing to stderr.
func Default() *Logger {
	return New(os.Stderr, slog.LevelInfo)
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
