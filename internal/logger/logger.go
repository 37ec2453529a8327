// Package logger provides structured logging for cursorwatch.
//
// Logs go to stderr as JSON so they never interleave with the tables
// and JSON documents the CLI prints on stdout.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu       sync.Mutex
	log      *slog.Logger
	logLevel slog.Level
)

func init() {
	// Parse log level from environment variable.
	// Supports: debug, info, warn, error (case-insensitive).
	logLevel = slog.LevelWarn // CLI default: quiet unless something is wrong.
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		switch strings.ToLower(levelStr) {
		case "debug":
			logLevel = slog.LevelDebug
		case "info":
			logLevel = slog.LevelInfo
		case "warn", "warning":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		}
	}
	configure(os.Stderr)
}

func configure(w io.Writer) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	log = slog.New(handler)
	slog.SetDefault(log)
}

// SetVerbose lowers the level to debug, surfacing per-candidate
// fallback failures and cache activity.
func SetVerbose() {
	mu.Lock()
	defer mu.Unlock()
	logLevel = slog.LevelDebug
	configure(os.Stderr)
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	return logLevel == slog.LevelDebug
}

// SetOutputForTest redirects log output to a custom writer for testing.
// Returns a cleanup function that restores stderr output.
func SetOutputForTest(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()
	configure(w)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		configure(os.Stderr)
	}
}

// Debug logs a debug message with structured fields.
func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

// Info logs an informational message with structured fields.
func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

// Warn logs a warning message with structured fields.
func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

// Error logs an error message with structured fields.
func Error(msg string, args ...any) {
	log.Error(msg, args...)
}
