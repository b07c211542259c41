// Package logger configures the process-wide slog logger for the
// directory service and carries request-scoped loggers through context.
package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init builds the shared logger for the given environment. Production
// emits JSON at info level so log collectors can parse it; everything
// else gets human-readable text at debug level.
func Init(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	switch env {
	case "production":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// LoggerWrapper returns the shared logger, initializing a development
// one first if Init was never called.
func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		Init("development")
	}
	return defaultLogger
}
