package logger

import (
	"io"
	"log/slog"

	"github.com/alkime/scope/internal/config"
)

// SetupLogger configures structured logging based on environment. The
// terminal belongs to the console, so records go to w (the log file).
func SetupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	// Determine log level
	logLevel := slog.LevelInfo
	if cfg.Env == "development" {
		logLevel = slog.LevelDebug
	}
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}
