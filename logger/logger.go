// Package logger provides leveled structured logging for the application.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var log = slog.Default()

// Init configures the global logger with the given level ("debug", "info",
// "warn", "error") writing text records to stderr.
func Init(level string) {
	InitWithOptions(level, "text", os.Stderr)
}

// InitWithOptions configures the global logger. format is "text" or "json".
func InitWithOptions(level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	log = slog.New(h)
}

// Discard silences all log output.
func Discard() {
	log = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) { log.Debug(msg, args...) }
func Info(msg string, args ...any)  { log.Info(msg, args...) }
func Warn(msg string, args ...any)  { log.Warn(msg, args...) }
func Error(msg string, args ...any) { log.Error(msg, args...) }
