package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var globalLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// ParseLevel maps a config level name to a slog level. Unknown names mean
// info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup replaces the global logger. Format "json" selects the JSON handler,
// anything else the text handler.
func Setup(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	globalLogger = slog.New(h)
	slog.SetDefault(globalLogger)
	return globalLogger
}

// Discard returns a logger that drops everything. Tests hand it to worlds
// and services.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Logger() *slog.Logger { return globalLogger }

// With returns the global logger with args attached to every record.
func With(args ...any) *slog.Logger { return globalLogger.With(args...) }

func Debug(msg string, args ...any) { globalLogger.Debug(msg, args...) }

func Info(msg string, args ...any) { globalLogger.Info(msg, args...) }

func Warn(msg string, args ...any) { globalLogger.Warn(msg, args...) }

func Error(msg string, args ...any) { globalLogger.Error(msg, args...) }

// Fatal logs at error level and exits.
func Fatal(msg string, args ...any) {
	globalLogger.Error(msg, args...)
	os.Exit(1)
}
