package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// NewSlogLogger creates a standalone JSON logger writing to writer. It does not touch the
// global CentralLogger and is what tests and library callers without configuration use.
// A nil writer writes to stderr; a nil timezone renders UTC.
func NewSlogLogger(writer io.Writer, level LogLevel, timezone *time.Location) Logger {
	if writer == nil {
		writer = os.Stderr
	}
	if timezone == nil {
		timezone = time.UTC
	}

	slogLevel := parseSlogLevel(level)
	return &moduleLogger{
		logger:   slog.New(newJSONHandler(writer, slogLevel, timezone)),
		level:    slogLevel,
		timezone: timezone,
	}
}

// NewConsoleLogger creates a text logger on stderr for use before configuration loads.
func NewConsoleLogger(module string, level LogLevel) Logger {
	slogLevel := parseSlogLevel(level)
	return &moduleLogger{
		module:   module,
		logger:   slog.New(newTextHandler(consoleWriter, slogLevel, time.Local)),
		level:    slogLevel,
		timezone: time.Local,
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &moduleLogger{
		logger: slog.New(slog.DiscardHandler),
		level:  slog.Level(1 << 10),
	}
}

// TraceIDFromContext returns the trace ID stored by WithTraceID, or "".
func TraceIDFromContext(ctx context.Context) string {
	return getTraceIDFromContext(ctx)
}
