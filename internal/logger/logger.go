// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the shared instance the rest of the application logs through.
var Logger = log.Logger

// Config controls log level and output format.
type Config struct {
	Level  string `json:"level,omitempty"`  // debug, info, warn, error
	Pretty bool   `json:"pretty,omitempty"` // console writer instead of JSON
}

// Init replaces the global logger according to cfg. Unknown levels fall back
// to info.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = Logger
}

// Debug starts a debug-level event on the shared logger.
func Debug() *zerolog.Event { return Logger.Debug() }

// Info starts an info-level event on the shared logger.
func Info() *zerolog.Event { return Logger.Info() }

// Warn starts a warn-level event on the shared logger.
func Warn() *zerolog.Event { return Logger.Warn() }

// Error starts an error-level event on the shared logger.
func Error() *zerolog.Event { return Logger.Error() }
