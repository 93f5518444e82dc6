// Package log provides the leveled, structured logger used across the
// core. It wraps zerolog behind a small call surface (Infow, Debugw,
// Warnw, Errorf, Error, Fatalf) so call sites never depend on zerolog
// types directly.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	// LogLevelDebug is the most verbose level.
	LogLevelDebug = "debug"
	// LogLevelInfo is the default production level.
	LogLevelInfo = "info"
	// LogLevelWarn only logs warnings and errors.
	LogLevelWarn = "warn"
	// LogLevelError only logs errors.
	LogLevelError = "error"

	logTestWriterName = "test"
)

var (
	mu     sync.Mutex
	logger zerolog.Logger
	level  = LogLevelInfo

	// panicOnInvalidChars guards against writing non-UTF8 byte soup into
	// structured fields; only enabled by tests.
	panicOnInvalidChars = false

	// logTestWriter lets tests redirect output without touching os.Stderr.
	logTestWriter io.Writer = os.Stderr
)

func init() {
	Init(LogLevelInfo, "stderr", nil)
}

// Init (re)configures the global logger. output is "stderr", "stdout" or
// a file path; if w is non-nil it takes precedence (used by tests).
func Init(lvl, output string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	level = strings.ToLower(lvl)

	var out io.Writer
	switch {
	case w != nil:
		out = w
	case output == logTestWriterName:
		out = logTestWriter
	case output == "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	zl := zerolog.New(out).With().Timestamp().Logger()
	switch level {
	case LogLevelDebug:
		zl = zl.Level(zerolog.DebugLevel)
	case LogLevelWarn:
		zl = zl.Level(zerolog.WarnLevel)
	case LogLevelError:
		zl = zl.Level(zerolog.ErrorLevel)
	default:
		zl = zl.Level(zerolog.InfoLevel)
	}
	logger = zl
}

// Level returns the currently configured level string.
func Level() string {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func checkChars(s string) {
	if panicOnInvalidChars && !utf8.ValidString(s) {
		panic(fmt.Sprintf("log message contains invalid utf-8: %q", s))
	}
}

func withFields(ev *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ev = ev.Interface(key, kv[i+1])
	}
	return ev
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkChars(msg)
	logger.Debug().Msg(msg)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkChars(msg)
	logger.Info().Msg(msg)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkChars(msg)
	logger.Warn().Msg(msg)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkChars(msg)
	logger.Error().Msg(msg)
}

// Debugw logs msg at debug level with structured key-value pairs.
func Debugw(msg string, kv ...any) {
	withFields(logger.Debug(), kv).Msg(msg)
}

// Infow logs msg at info level with structured key-value pairs.
func Infow(msg string, kv ...any) {
	withFields(logger.Info(), kv).Msg(msg)
}

// Warnw logs msg at warn level with structured key-value pairs.
func Warnw(msg string, kv ...any) {
	withFields(logger.Warn(), kv).Msg(msg)
}

// Errorw logs msg at error level with structured key-value pairs.
func Errorw(msg string, kv ...any) {
	withFields(logger.Error(), kv).Msg(msg)
}

// Error logs an error value at error level.
func Error(err error) {
	if err == nil {
		return
	}
	logger.Error().Msg(err.Error())
}

// Warn logs an error value at warn level.
func Warn(err error) {
	if err == nil {
		return
	}
	logger.Warn().Msg(err.Error())
}

// Fatalf logs at fatal level and terminates the process. Only ever used
// for startup failures (§7 Fatal taxonomy), never on the request path.
func Fatalf(format string, args ...any) {
	logger.Fatal().Msg(fmt.Sprintf(format, args...))
}
