// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger at level writing to stderr, so command
// output on stdout stays clean. Format "console" is human-readable; anything
// else is JSON.
func New(level, format string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, level)
}

// NewWithWriter returns a timestamped logger writing to w.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
