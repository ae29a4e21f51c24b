package attrstore

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with attrstore-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(table string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", table),
	}
}

// WithElement adds an element id field to the logger.
func (l *Logger) WithElement(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("element", id),
	}
}

// LogWrite logs an attribute mutation. l is expected to carry the table
// and element fields (see WithTable and WithElement).
func (l *Logger) LogWrite(ctx context.Context, op, column string, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"column", column,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, op+" completed",
			"column", column,
		)
	}
}

// LogElement logs an element being added to or removed from a table.
func (l *Logger) LogElement(ctx context.Context, op, element string, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"element", element,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, op+" completed",
			"element", element,
		)
	}
}

// LogColumn logs a column being added to or removed from a table.
func (l *Logger) LogColumn(ctx context.Context, op, column string, index int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"column", column,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, op+" completed",
			"column", column,
			"index", index,
		)
	}
}

// LogClear logs a bulk clear across a table.
func (l *Logger) LogClear(ctx context.Context, elements int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clear failed",
			"elements", elements,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clear completed",
			"elements", elements,
		)
	}
}
