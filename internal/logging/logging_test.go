package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected the default logger")
	}
	if FromContext(nil) == nil {
		t.Fatal("expected the default logger for a nil context")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatal("expected the stored logger back")
	}
}

func TestStartSpanAssignsTraceAndSpanIDs(t *testing.T) {
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, span := StartSpan(ctx, "generate")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		t.Fatal("expected a trace id")
	}
	if spanIDFromContext(ctx) == "" {
		t.Fatal("expected a span id")
	}

	childCtx, child := StartSpan(ctx, "download")
	defer child.End()

	if got := TraceIDFromContext(childCtx); got != traceID {
		t.Fatalf("child span changed the trace id: %q != %q", got, traceID)
	}
	if spanIDFromContext(childCtx) == spanIDFromContext(ctx) {
		t.Fatal("child span should get its own span id")
	}
}

func TestSpanEndNil(t *testing.T) {
	var span *Span
	span.End()
}
