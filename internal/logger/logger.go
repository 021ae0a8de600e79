package logger

import (
	"log/slog"
	"os"

	"github.com/atra-labs/atra/internal/config"
)

// Setup configures structured logging based on environment.
func Setup(cfg *config.Config) *slog.Logger {
	// Determine log level
	logLevel := slog.LevelInfo
	if cfg.Env != config.EnvProduction {
		logLevel = slog.LevelDebug
	}
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	// JSON in production for log collectors, plain text for operators
	// watching a CLI run.
	var handler slog.Handler
	if cfg.Env == config.EnvProduction {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}
