// Package log configures the zerolog logger shared by the analysis pipeline
// and wires the warning handler so advisory warnings (non-convergence, high
// VIF) come out as structured log records.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gridironlab/tdreg/pkg/errors"
)

// Setup builds the root logger and installs it as the warning sink.
// level accepts debug, info, warn and error; anything else falls back
// to info.
func Setup(level string) zerolog.Logger {
	return SetupWriter(os.Stderr, level)
}

// SetupWriter is Setup with an explicit destination, used by tests.
func SetupWriter(w io.Writer, level string) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(ToLogLevel(level)).
		With().
		Timestamp().
		Logger()

	InstallWarningSink(logger)
	return logger
}

// ToLogLevel maps a level name to a zerolog level.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// InstallWarningSink routes pkg/errors warnings through the given logger.
// Warnings that implement zerolog.LogObjectMarshaler keep their structured
// fields; everything else is logged as a plain error value.
func InstallWarningSink(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(marshaler).Msg(warning.Error())
			return
		}
		logger.Warn().Err(warning).Msg("analysis warning")
	})
}
