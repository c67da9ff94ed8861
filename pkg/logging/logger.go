package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Fields represents structured log fields
type Fields map[string]interface{}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the given request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom extracts the request id from the context, if present
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// StructuredLogger provides structured JSON logging with context awareness.
// Every entry carries the service name, version and hostname.
type StructuredLogger struct {
	log zerolog.Logger
}

// NewStructuredLogger creates a new structured logger writing JSON to stdout.
// level accepts the usual level names ("debug", "info", "warn", "error");
// unknown values fall back to info.
func NewStructuredLogger(service, version, level string) *StructuredLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	hostname, _ := os.Hostname()

	logger := zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Str("hostname", hostname).
		Logger()

	return &StructuredLogger{log: logger}
}

// NewNop returns a logger that discards everything. Intended for tests.
func NewNop() *StructuredLogger {
	return &StructuredLogger{log: zerolog.New(io.Discard)}
}

// SetOutput returns a copy of the logger writing to w
func (l *StructuredLogger) SetOutput(w io.Writer) *StructuredLogger {
	return &StructuredLogger{log: l.log.Output(w)}
}

// Debug logs a debug message with structured fields
func (l *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	l.emit(ctx, l.log.Debug(), message, fields)
}

// Info logs an info message with structured fields
func (l *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	l.emit(ctx, l.log.Info(), message, fields)
}

// Warn logs a warning message with structured fields
func (l *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	l.emit(ctx, l.log.Warn(), message, fields)
}

// Error logs an error message with structured fields and error details
func (l *StructuredLogger) Error(ctx context.Context, message string, fields Fields, err error) {
	l.emit(ctx, l.log.Error().Err(err), message, fields)
}

// Fatal logs a fatal message and exits the program
func (l *StructuredLogger) Fatal(ctx context.Context, message string, fields Fields, err error) {
	l.emit(ctx, l.log.Fatal().Err(err), message, fields)
}

func (l *StructuredLogger) emit(ctx context.Context, event *zerolog.Event, message string, fields Fields) {
	if requestID := RequestIDFrom(ctx); requestID != "" {
		event = event.Str("request_id", requestID)
	}
	if len(fields) > 0 {
		event = event.Fields(map[string]interface{}(fields))
	}
	event.Msg(message)
}

// WithFields creates a new logger with additional persistent fields
func (l *StructuredLogger) WithFields(fields Fields) *StructuredLogger {
	return &StructuredLogger{
		log: l.log.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}
