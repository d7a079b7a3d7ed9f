package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger stores logger in ctx. A nil logger stores Default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or Default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithField returns ctx with a logger that adds key to every event.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := FromContext(ctx).With().Interface(key, value).Logger()
	return WithLogger(ctx, &logger)
}

func withString(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithRunID records the reconciliation run id in ctx and its logger.
func WithRunID(ctx context.Context, runID string) context.Context {
	return withString(context.WithValue(ctx, runIDKey, runID), "run_id", runID)
}

// RunID returns the run id recorded by WithRunID.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithOperation tags the logger with the running command, e.g. "excel2xml".
func WithOperation(ctx context.Context, operation string) context.Context {
	return withString(ctx, "operation", operation)
}

// WithDocument tags the logger with a recipe file name.
func WithDocument(ctx context.Context, name string) context.Context {
	return withString(ctx, "document", name)
}

// WithSheet tags the logger with a workbook sheet title.
func WithSheet(ctx context.Context, name string) context.Context {
	return withString(ctx, "sheet", name)
}
