// Package log provides the zerolog-based package logger shared by the
// toolkit. Output goes to a console writer on stderr; level and
// destination are adjustable at startup.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var pkgLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().
	Timestamp().
	Logger()

// SetLevel adjusts the minimum level emitted, from a level name
// ("trace", "debug", "info", "warn", "error"). Unknown names leave the
// logger unchanged.
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log: unknown level %q: %w", level, err)
	}
	pkgLogger = pkgLogger.Level(lvl)
	return nil
}

// SetOutput redirects the logger wholesale, primarily for tests.
// Not safe to call concurrently with logging.
func SetOutput(w io.Writer) {
	pkgLogger = zerolog.New(w).With().Timestamp().Logger()
}

// --- Logging Functions ---

func Debug() *zerolog.Event { return pkgLogger.Debug() }
func Info() *zerolog.Event  { return pkgLogger.Info() }
func Warn() *zerolog.Event  { return pkgLogger.Warn() }
func Error() *zerolog.Event { return pkgLogger.Error() }
func Fatal() *zerolog.Event { return pkgLogger.Fatal() }
func Panic() *zerolog.Event { return pkgLogger.Panic() }
func Log() *zerolog.Event   { return pkgLogger.Log() }

// Print sends a log event at info level with no extra field.
// Arguments are handled in the manner of fmt.Print.
func Print(v ...interface{}) {
	pkgLogger.Info().CallerSkipFrame(1).Msg(fmt.Sprint(v...))
}

// Printf sends a log event at info level with no extra field.
// Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...interface{}) {
	pkgLogger.Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	pkgLogger.Fatal().Msgf(format, v...)
}
