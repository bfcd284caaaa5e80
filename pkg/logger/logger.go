package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. Local environments get a console
// writer; everything else logs JSON to stdout.
func New(level, appEnv string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, appEnv)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, appEnv string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldInteger = true

	out := w
	if appEnv == "local" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05 MST"}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
