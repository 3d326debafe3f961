package logger

import (
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger with the service name attached.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler).With(slog.String("service", "coffeebeans-shop"))
}
