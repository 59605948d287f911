package logging

import (
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger. It embeds slog.Logger, so
// call sites use the usual Info/Error/Debug key-value form.
type Logger struct {
	*slog.Logger
}

// New builds a JSON logger writing to stdout. Unknown level strings fall
// back to info.
func New(level string) *Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return &Logger{Logger: slog.New(handler)}
}

// Default returns an info-level logger for code paths constructed without
// explicit configuration.
func Default() *Logger {
	return New("info")
}

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(component string) *Logger {
	if l == nil {
		return Default().Named(component)
	}
	return &Logger{Logger: l.Logger.With("component", component)}
}
