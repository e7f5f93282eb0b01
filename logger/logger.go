// ABOUTME: This file bootstraps the process-wide structured logger
// ABOUTME: Handler format and level are selected via environment variables
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init builds the process logger. LOG_FORMAT=json switches to the JSON
// handler; LOG_LEVEL accepts debug/info/warn/error (default info).
func Init() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
