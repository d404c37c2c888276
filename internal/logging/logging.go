// Package logging configures the process-wide slog logger.
//
// Development builds get colored output through tint; production emits JSON
// lines so the log collector can parse them.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger for the given level name and returns it.
func Setup(level string, production bool) *slog.Logger {
	logger := New(os.Stderr, ParseLevel(level), production)
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, level slog.Level, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
