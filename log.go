package lalg

import (
	"context"
	"log/slog"
)

// Logger is a nil-safe wrapper around slog.Logger used as the log sink by all stages.
type Logger struct {
	L *slog.Logger
}

// NewLogger derives a component logger, returns disabled Logger if l is nil.
func NewLogger(l *slog.Logger, component string) Logger {
	if l == nil {
		return Logger{}
	}
	return Logger{l.With(slog.String("component", component))}
}

// Enabled reports whether messages of given level will be handled.
func (l Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(context.Background(), level)
}

// Log emits a message if logging is enabled.
func (l Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L == nil {
		return
	}
	l.L.LogAttrs(context.Background(), level, msg, attrs...)
}

// Debug logs step narration.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.Log(slog.LevelDebug, msg, attrs...)
}

// Info logs phase boundaries.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.Log(slog.LevelInfo, msg, attrs...)
}

// Warn logs recovered faults.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.Log(slog.LevelWarn, msg, attrs...)
}

// Slog returns the wrapped logger or nil.
func (l Logger) Slog() *slog.Logger {
	return l.L
}
