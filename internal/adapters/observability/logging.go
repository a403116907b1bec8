package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger on stdout tagged with the service name.
// APP_ENV=dev (or development) uses a human-friendly console writer and
// debug level.
func NewLogger(env, service string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, env, service)
}

func NewLoggerTo(w io.Writer, env, service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", service).Logger()
}
