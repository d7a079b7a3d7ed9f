// Package logging provides structured logging for the bulk editor using zerolog.
// Human-readable console output is used on terminals and JSON everywhere else.
//
// Loggers travel in the context so that every row and document logged during
// a run carries the same run id and operation:
//
//	ctx := logging.WithLogger(context.Background(), logging.Default())
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithDocument(ctx, "Main.PXML")
//	logging.FromContext(ctx).Debug().Str("path", path).Msg("Updated entity")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(ConfigFromEnv())

// Default returns the process-wide logger used when a context carries none.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}
