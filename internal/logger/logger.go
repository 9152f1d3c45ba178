// Package logger provides logging utilities for release-toolbox using the bullets library.
//
// It wraps [bullets.Logger] with convenience constructors for creating loggers
// at various levels and a silent logger for use in tests or when no output is desired.
//
// Usage:
//
//	log := logger.NewLogger("debug")
//	log.Debug("Starting operation")
//
//	silentLog := logger.NoLogger() // Suppresses all output
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sgaunet/bullets"
)

var errUnknownLevel = errors.New("unknown log level")

// ErrUnknownLevel is returned by ParseLevel for unsupported level names.
var ErrUnknownLevel = errUnknownLevel

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name into a bullets level.
func ParseLevel(logLevel string) (bullets.Level, error) {
	switch logLevel {
	case "debug":
		return bullets.DebugLevel, nil
	case "info":
		return bullets.InfoLevel, nil
	case "warn":
		return bullets.WarnLevel, nil
	case "error":
		return bullets.ErrorLevel, nil
	default:
		return bullets.InfoLevel, fmt.Errorf("%w: %q", errUnknownLevel, logLevel)
	}
}

// NewLogger creates a new logger that writes to stdout at the specified level.
//
// Parameters:
//   - logLevel: one of "debug", "info", "warn", "error" (defaults to "info" for unknown values)
func NewLogger(logLevel string) *bullets.Logger {
	return New(os.Stdout, logLevel)
}

// New creates a logger writing to w at the specified level.
func New(w io.Writer, logLevel string) *bullets.Logger {
	level, _ := ParseLevel(logLevel)
	logger := bullets.New(w)
	logger.SetLevel(level)
	return logger
}

// NoLogger creates a logger that suppresses all output by setting the level to Fatal.
// Useful for tests and silent operation.
func NoLogger() *bullets.Logger {
	logger := bullets.New(io.Discard)
	logger.SetLevel(bullets.FatalLevel)
	return logger
}
