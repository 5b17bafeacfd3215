// Package logging wraps zerolog behind a package-level
// Init/Debug/Info/Warn/Error API, so call sites stay one-liners and the
// structured backend can change without touching them.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"paymentengine/internal/pkg/config"
)

var defaultLogger zerolog.Logger

func init() {
	// Usable before Init so early boot code and tests that log before
	// config.Load() still produce output: JSON, with no level set until
	// Init applies cfg.Logging.Level.
	defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init configures the package-level logger from cfg.Logging. Call once at
// process start, before any other component logs.
func Init(cfg *config.Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Logging.Level))

	builder := zerolog.New(os.Stdout).With().Timestamp()
	if cfg.Logging.Format != "json" {
		defaultLogger = builder.Logger().Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
		return
	}
	defaultLogger = builder.Logger()
}

func parseLevel(levelStr string) zerolog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func withFields(event *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}

func Debug(message string, fields ...map[string]interface{}) {
	event := defaultLogger.Debug()
	if len(fields) > 0 {
		event = withFields(event, fields[0])
	}
	event.Msg(message)
}

func Info(message string, fields ...map[string]interface{}) {
	event := defaultLogger.Info()
	if len(fields) > 0 {
		event = withFields(event, fields[0])
	}
	event.Msg(message)
}

func Warn(message string, fields ...map[string]interface{}) {
	event := defaultLogger.Warn()
	if len(fields) > 0 {
		event = withFields(event, fields[0])
	}
	event.Msg(message)
}

// Error logs at error level, attaching err (if non-nil) as the "error"
// field alongside any caller-supplied fields.
func Error(message string, err error, fields map[string]interface{}) {
	event := defaultLogger.Error()
	if err != nil {
		event = event.Err(err)
	}
	if fields != nil {
		event = withFields(event, fields)
	}
	event.Msg(message)
}
