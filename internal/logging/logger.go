// Package logging defines the structured, context-aware logger used across
// the client, with log/slog and zerolog backends.
package logging

import (
	"context"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "donation created", "id", d.ID, "images", len(d.Images))
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Format selects the logging backend.
type Format string

const (
	FormatText    Format = "text"
	FormatConsole Format = "console"
)

// New builds a Logger writing to w. FormatConsole uses zerolog's console
// writer; anything else uses the slog text handler. level accepts debug,
// info, warn and error; unknown values mean info.
func New(format Format, level string, w io.Writer) Logger {
	lvl := strings.ToLower(strings.TrimSpace(level))
	if format == FormatConsole {
		return NewZerologLogger(w, lvl)
	}
	return NewTextLogger(w, lvl)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewTextLogger(io.Discard, "error")
}
