// Package ui owns the process-wide console logger.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

var logger = NewLogger(colorable.NewColorableStderr())

// NewLogger returns a console logger writing to out
func NewLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05.000",
	}).With().Timestamp().Logger()
}

// Logger returns the shared console logger
func Logger() *zerolog.Logger {
	return &logger
}

// SetLevel sets the global log level from its name (trace, debug, info, warn, error)
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
