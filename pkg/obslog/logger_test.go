package obslog

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	if got := RequestIDFromContext(ctx); got != "abc-123" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "abc-123")
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() on empty ctx = %q, want empty", got)
	}
}

func TestNewRequestID_Unique(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	if a == b {
		t.Errorf("NewRequestID() returned duplicate values: %q", a)
	}
}

func TestLogger_DoesNotPanic(t *testing.T) {
	l := New("test-component")
	ctx := WithRequestID(context.Background(), "req-1")
	l.Info(ctx, "hello", map[string]interface{}{"n": 1})
	l.Warn(ctx, "careful", nil)
	l.Error(ctx, "boom", map[string]interface{}{"err": "x"})
	l.Debug(ctx, "trace", nil)
}
