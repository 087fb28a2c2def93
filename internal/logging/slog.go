package logging

import (
	"context"
	"io"
	"log/slog"
)

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// New wraps an existing slog logger.
func New(l *slog.Logger) Logger {
	return slogLogger{l: l}
}

// NewJSONLogger is the server's logger: JSON lines on w.
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	return New(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewTextLogger is the client's logger: logfmt lines on w, usually a file
// in the data directory so the REPL output stays readable.
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	return New(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(slog.New(slog.DiscardHandler))
}

func (s slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (s slogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (s slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (s slogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelError, msg, args...)
}

func (s slogLogger) With(args ...any) Logger {
	return slogLogger{l: s.l.With(args...)}
}
