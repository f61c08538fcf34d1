// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel overrides the log level (debug, info, warn, error).
const EnvLogLevel = "TTGEN_LOG_LEVEL"

// Options configures a logger.
type Options struct {
	// Output defaults to stderr.
	Output io.Writer
	Level  slog.Level
	JSON   bool
	// Name and Version, when set, are attached to every record.
	Name    string
	Version string
}

// NewLogger returns a text or JSON logger for opts.
func NewLogger(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Name != "" {
		logger = logger.With("name", opts.Name)
	}
	if opts.Version != "" {
		logger = logger.With("version", opts.Version)
	}
	return logger
}

// SetDefault installs a logger for opts as the slog default and returns it.
func SetDefault(opts Options) *slog.Logger {
	logger := NewLogger(opts)
	slog.SetDefault(logger)
	return logger
}

// Level returns debug when debug is set, otherwise the level from the
// environment.
func Level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return LevelFromEnv(slog.LevelInfo)
}

// LevelFromEnv parses the level in EnvLogLevel, returning fallback when it is
// unset or invalid.
func LevelFromEnv(fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
