// Package logger provides the slog-based logging setup shared by the CLI
// and the analysis engine.
package logger

import (
	"log/slog"
	"os"
)

// Interface defines the logging methods the engine depends on.
type Interface interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Logger wraps a slog.Logger writing to stderr.
type Logger struct {
	logger *slog.Logger
}

// New creates a logger at the default INFO level.
func New() *Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a logger with the specified level.
func NewWithLevel(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		logger: slog.New(handler),
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// GetSlogLogger returns the underlying slog logger, suitable for
// slog.SetDefault.
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// Error creates a structured error attribute.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
