// Package logging holds the process-wide zerolog logger. The analysis
// engine itself never logs; only the CLI and ingest boundary do.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger = zerolog.New(io.Discard)

// Init configures the global logger to write to stderr at the given level.
// Unknown levels fall back to info.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	log = zerolog.New(console).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// InitQuiet discards all log output.
func InitQuiet() {
	log = zerolog.New(io.Discard)
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error starts an error-level event.
func Error() *zerolog.Event {
	return log.Error()
}
