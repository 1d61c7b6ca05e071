package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

type ctxKey struct{}

var (
	mu            sync.RWMutex
	defaultLogger = newConsoleLogger(os.Stderr, slog.LevelInfo)
)

// Default returns the process-wide logger.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

// With returns a context carrying the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger stored in ctx, falling back to the default logger.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}

// redactor masks secret-tagged fields and token values in log output.
func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Secret"),
		masq.WithFieldPrefix("secret"),
		masq.WithFieldName("ConfirmationToken"),
		masq.WithFieldName("PublicToken"),
	)
}

func newConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithSource(true),
		clog.WithReplaceAttr(redactor()),
		clog.WithColorMap(&clog.ColorMap{
			Level: map[slog.Level]*color.Color{
				slog.LevelError: color.New(color.FgRed, color.Bold),
				slog.LevelWarn:  color.New(color.FgYellow),
			},
			LevelDefault: color.New(color.FgBlue),
			Time:         color.New(color.FgWhite),
			Message:      color.New(color.FgCyan),
		}),
	)
	return slog.New(handler)
}

func newJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactor(),
	}))
}

// NewLogger builds a logger for the given format ("console" or "json").
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == "json" {
		return newJSONLogger(w, level)
	}
	return newConsoleLogger(w, level)
}
