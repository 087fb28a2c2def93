// Package logging defines the structured-logging interface shared by the
// client and server, and its slog-backed implementation.
package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Logger takes a message plus alternating keys and values:
//
//	log.Info(ctx, "flushed transcript", "thread", name, "written", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}

// ParseLevel maps a config string such as "debug" or "WARN" to a slog
// level. "warning" is accepted too; anything unrecognised means info.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
