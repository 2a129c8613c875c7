package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the JSON logger used across the app. Records logged with a
// request context carry the request id and the span ids.
func NewLogger(env string) *slog.Logger {
	return NewLoggerTo(os.Stdout, env)
}

func NewLoggerTo(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler)).With("service", "lentpath", "env", env)
}
