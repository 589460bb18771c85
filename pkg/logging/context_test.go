package logging

import (
	"context"
	"testing"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if got := TraceIDFromContext(ctx); got != "" {
		t.Errorf("TraceIDFromContext(empty) = %q, want empty", got)
	}
	if got := OriginFromContext(ctx); got != "" {
		t.Errorf("OriginFromContext(empty) = %q, want empty", got)
	}
	if got := ContextAttrs(ctx); len(got) != 0 {
		t.Errorf("ContextAttrs(empty) len = %d, want 0", len(got))
	}

	ctx = ContextWithTraceID(ctx, "trace-1")
	ctx = ContextWithOrigin(ctx, "origin-1")

	if got := TraceIDFromContext(ctx); got != "trace-1" {
		t.Errorf("TraceIDFromContext() = %q, want %q", got, "trace-1")
	}
	if got := OriginFromContext(ctx); got != "origin-1" {
		t.Errorf("OriginFromContext() = %q, want %q", got, "origin-1")
	}
	if got := ContextAttrs(ctx); len(got) != 2 {
		t.Errorf("ContextAttrs() len = %d, want 2", len(got))
	}
}
