// Package logger wraps log/slog with the request and actor fields every
// log line in the backend carries.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"raf_pnp_backend/platform/actor"
)

type contextKey string

// RequestIDKey holds the X-Request-ID of the current request.
const RequestIDKey contextKey = "request_id"

// Logger is a slog.Logger with a few domain-specific helpers.
type Logger struct {
	*slog.Logger
}

// New returns a text logger at debug level for development and a JSON
// logger at info level otherwise, both writing to stdout.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env string, w io.Writer) *Logger {
	if strings.EqualFold(env, "development") {
		return &Logger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// With returns a child logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// WithContext attaches the request id and the acting user or system
// identity found on ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	var attrs []any
	if id, _ := ctx.Value(RequestIDKey).(string); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if a, ok := actor.FromContext(ctx); ok {
		attrs = append(attrs, slog.Group("actor",
			slog.String("kind", string(a.Kind)),
			slog.String("id", a.ID.String()),
			slog.String("name", a.Label()),
		))
	}
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// Request logs a completed HTTP request. Server errors are logged at error
// level together with the last handler error.
func (l *Logger) Request(method, path string, status int, latency time.Duration, clientIP string, err error) {
	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int64("latency_ms", latency.Milliseconds()),
		slog.String("client_ip", clientIP),
	}
	if status >= 500 && err != nil {
		l.Error("http_request", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	l.Info("http_request", attrs...)
}

// TransportFailure records a WhatsApp or email delivery that failed after
// the in-app notification was already stored.
func (l *Logger) TransportFailure(channel, recipient string, err error) {
	l.Warn("transport_failure",
		slog.String("channel", channel),
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}

// RateLimited records a request rejected by the named limiter.
func (l *Logger) RateLimited(limiter, clientIP, path string) {
	l.Warn("rate_limited",
		slog.String("limiter", limiter),
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
