// logger sets up the process-wide slog logger and provides per-request
// context loggers used by the HTTP middleware and handlers.
//
// In dev environments logs are rendered with tint (human readable, colored),
// in prod/staging they are emitted as JSON. When logging is disabled by
// configuration a discard logger is returned so callers never need nil checks.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const (
	requestLoggerKey contextKey = "requestLogger"
	logAttrsKey      contextKey = "logAttrs"
)

// ParseLogLevel converts a configuration string into a slog.Level.
// Unrecognized values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates the application logger for the given environment and
// installs it as the slog default.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch environment {
	case "prod", "staging":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	appLogger := slog.New(handler)
	slog.SetDefault(appLogger)
	return appLogger
}

// NewDiscardLogger returns a logger that drops everything.
// Used when EnableLogging is false.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ContextWithRequestLogger stores a request-scoped logger on the context.
// The request logging middleware attaches a logger carrying the request id
// so handlers can log with correlation attributes already set.
func ContextWithRequestLogger(ctx context.Context, reqLogger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, reqLogger)
}

// ContextRequestLogger returns the request-scoped logger from the context,
// falling back to the process default logger when none is set
// (e.g. in tests that call handlers directly).
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if reqLogger, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return reqLogger
	}
	return slog.Default()
}

// attrStore collects attributes accumulated over the life of a request.
// the middleware includes them in the final request log line.
type attrStore struct {
	attrs []slog.Attr
}

// ContextWithLogAttrStore initializes the attribute store for a request.
// Must be called by the request logging middleware before handlers run.
func ContextWithLogAttrStore(ctx context.Context) context.Context {
	return context.WithValue(ctx, logAttrsKey, &attrStore{})
}

// ContextWithLogAttrs appends attributes to the request's attribute store.
// No-op when the store is absent (direct handler tests).
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	if store, ok := ctx.Value(logAttrsKey).(*attrStore); ok {
		store.attrs = append(store.attrs, attrs...)
	}
}

// ContextLogAttrs returns the attributes accumulated for the request.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if store, ok := ctx.Value(logAttrsKey).(*attrStore); ok {
		return store.attrs
	}
	return nil
}
