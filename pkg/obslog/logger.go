// Package obslog provides the structured JSON logging used across every
// service, generalized from the teacher's pkg/middleware request logger:
// same "stdlib log.Printf + json.Marshal'd field map" shape, but reusable
// from background workers (job processor, cache sweeper) and not just
// HTTP middleware. Correlation IDs use google/uuid exactly as the teacher
// does for X-Request-ID.
//
// Design Notes:
//   - Uses standard log package for compatibility, matching the teacher.
//   - JSON fields over human-readable text: chosen for parsing.
//   - Log level carried as a field, not as separate logger instances.
package obslog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request-id"

// Level is a log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger emits structured JSON lines tagged with a fixed component name.
// Safe for concurrent use: it only wraps the stdlib log package, which is
// already safe for concurrent use.
type Logger struct {
	component string
}

// New returns a Logger tagged with component (e.g. "cache", "job", "runner").
func New(component string) *Logger {
	return &Logger{component: component}
}

// WithRequestID adds a request/job ID to the context for later retrieval.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation ID stored in ctx, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewRequestID generates a fresh correlation ID (uuid v4).
func NewRequestID() string {
	return uuid.New().String()
}

// Info logs at INFO level with the given structured fields.
func (l *Logger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, LevelInfo, msg, fields)
}

// Warn logs at WARN level with the given structured fields.
func (l *Logger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, LevelWarn, msg, fields)
}

// Error logs at ERROR level with the given structured fields.
func (l *Logger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, LevelError, msg, fields)
}

// Debug logs at DEBUG level with the given structured fields.
func (l *Logger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *Logger) log(ctx context.Context, level Level, msg string, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"level":      string(level),
		"component":  l.component,
		"message":    msg,
		"request_id": RequestIDFromContext(ctx),
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[ERROR] obslog: failed to marshal log entry: %v", err)
		log.Printf("[%s] %s: %s", level, l.component, msg)
		return
	}
	log.Printf("[%s] %s", level, string(data))
}
