package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string

	// Format is the output format: json or text.
	Format string

	// Writer is the output destination; defaults to os.Stdout.
	Writer io.Writer
}

// New builds a structured logger. The returned LevelVar is live: storing a
// new level changes the logger's verbosity immediately.
func New(cfg Config) (*slog.Logger, *slog.LevelVar, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json", "":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	return slog.New(handler), levelVar, nil
}

// ParseLevel parses a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Component returns a child logger tagged with the component name.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}
