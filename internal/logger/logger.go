// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var root = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global log level and output format. Level is one of
// debug, info, warn, error; anything else falls back to info. When pretty
// is true, output is human-readable console format instead of JSON.
func Init(level string, pretty bool) {
	lvl := parseLevel(level)

	var l zerolog.Logger
	if pretty {
		w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		l = zerolog.New(w).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	root = l.Level(lvl)
}

// Get returns the root logger.
func Get() zerolog.Logger {
	return root
}

// With returns a logger tagged with a component name.
func With(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
