// Package logger provides a configured structured logger for the server.
// It wraps the standard library "log/slog" package to ensure consistent
// formatting (JSON in production, text in development) and level management.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a *slog.Logger writing to os.Stdout.
func New(level, format string) *slog.Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter creates a *slog.Logger writing to w. Useful for tests or
// custom output destinations.
func NewWithWriter(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		// JSON unless explicitly asked otherwise; machine-readable is the
		// safe default for a server
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("service", "promolang"))
}

// parseLevel converts a string to slog.Level. Defaults to INFO.
func parseLevel(s string) slog.Level {
	var level slog.Level
	// UnmarshalText handles case insensitivity (INFO, info, Info)
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
