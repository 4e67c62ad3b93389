// Package logging provides the process-wide logger. The MCP stream owns
// stdout, so everything here writes to stderr or a file, never stdout.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	disabled = false
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
)

// Setup configures the global logger from a level string and optional file
// path. An empty path keeps stderr.
func Setup(level, file string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		out = f
	}

	logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return nil
}

// Disable turns off all logging
func Disable() {
	disabled = true
}

// Enable turns logging back on
func Enable() {
	disabled = false
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	if !disabled {
		logger.Info().Msgf(format, v...)
	}
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	if !disabled {
		logger.Error().Msgf(format, v...)
	}
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	if !disabled {
		logger.Warn().Msgf(format, v...)
	}
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...any) {
	if !disabled {
		logger.Debug().Msgf(format, v...)
	}
}

// With returns a zerolog sub-logger carrying the given component field, for
// packages that want structured context instead of the package-level API.
func With(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
