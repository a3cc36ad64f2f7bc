// Package logger defines the Logger interface the source pump loops and
// the CLI's error reporting take as a parameter, plus a zerolog-backed
// implementation and a no-op stand-in for tests.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging capability passed to source.PumpZniffer,
// source.PumpPTI and errors.HandleReturn. The parsers and the bus do not
// log; cmd/zwzniff keeps its Logger in a package-level variable.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Zerolog adapts a zerolog.Logger to the Logger interface.
type Zerolog struct {
	l zerolog.Logger
}

// New builds a Zerolog logger writing to w with the given level
// ("debug", "info", "warn", "error"; unrecognized values fall back to info).
func New(w io.Writer, level string) *Zerolog {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	return &Zerolog{l: l}
}

// NewStderr is the default logger used by the CLI.
func NewStderr(level string) *Zerolog {
	return New(os.Stderr, level)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z *Zerolog) Debug(format string, args ...interface{}) { z.l.Debug().Msgf(format, args...) }
func (z *Zerolog) Info(format string, args ...interface{})  { z.l.Info().Msgf(format, args...) }
func (z *Zerolog) Warn(format string, args ...interface{})  { z.l.Warn().Msgf(format, args...) }
func (z *Zerolog) Error(format string, args ...interface{}) { z.l.Error().Msgf(format, args...) }

// Noop discards everything; useful in tests and as a constructor default.
type Noop struct{}

func (Noop) Debug(string, ...interface{}) {}
func (Noop) Info(string, ...interface{})  {}
func (Noop) Warn(string, ...interface{})  {}
func (Noop) Error(string, ...interface{}) {}
