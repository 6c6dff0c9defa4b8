package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the studio's zerolog handle. Each part of the UI logs through
// its own Sub logger so entries carry a "subsystem" field.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger returns a root logger writing JSON lines to w at level.
func NewLogger(w io.Writer, level string) *Logger {
	return &Logger{zl: zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()}
}

// newConsoleLogger writes human-readable lines to w, for the headless
// commands.
func newConsoleLogger(w io.Writer, level string) *Logger {
	return NewLogger(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.Kitchen}, level)
}

// openFileLogger appends to the studio log file. The interactive UI owns
// the terminal, so it cannot log to stderr.
func openFileLogger(path, level string) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f, level), f, nil
}

// Sub returns a child logger tagged with subsystem.
func (l *Logger) Sub(subsystem string) *Logger {
	return &Logger{zl: l.zl.With().Str("subsystem", subsystem).Logger()}
}

// Debug starts a debug entry.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }

// Info starts an info entry.
func (l *Logger) Info() *zerolog.Event { return l.zl.Info() }

// Warn starts a warning entry.
func (l *Logger) Warn() *zerolog.Event { return l.zl.Warn() }

// Error starts an error entry.
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// parseLevel accepts zerolog's level names plus "silent". Empty or unknown
// input falls back to info.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "silent" {
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
