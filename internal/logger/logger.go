// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a console logger writing to w. Debug messages are only
// emitted when debug is set.
func New(w io.Writer, debug, noColor bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Init installs a stderr console logger as the global logger.
func Init(debug, noColor bool) {
	log.Logger = New(os.Stderr, debug, noColor)
}

// Quiet raises the global logger to errors only. Used while a full-screen
// view owns the terminal.
func Quiet() {
	log.Logger = log.Logger.Level(zerolog.ErrorLevel)
}
