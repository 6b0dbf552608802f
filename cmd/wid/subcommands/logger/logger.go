package logger

import (
	"io"
	"log"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func Null() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

func Default() *log.Logger {
	return log.Default()
}

// Trace returns a structured logger for requests and state changes.
//
// level is a zerolog level name. Empty or unknown means "warn".
func Trace(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}).
		Level(lvl).
		With().Timestamp().
		Logger()
}
