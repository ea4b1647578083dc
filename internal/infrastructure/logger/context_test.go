package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext(t *testing.T) (context.Context, trace.SpanContext) {
	t.Helper()
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc), sc
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, UserID(ctx))
	assert.Empty(t, Locale(ctx))
	assert.Empty(t, TraceID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithLocale(ctx, "bn")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "user-1", UserID(ctx))
	assert.Equal(t, "bn", Locale(ctx))
}

func TestTraceID(t *testing.T) {
	ctx, sc := spanContext(t)
	assert.Equal(t, sc.TraceID().String(), TraceID(ctx))
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, sc := spanContext(t)
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithUserID(ctx, "user-9")

	L(ctx, base).Info("entry posted")

	entries := recorded.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.NotContains(t, fields, "locale")
}

func TestL_UsesContextLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx, nil).Info("from context")

	assert.Equal(t, 1, recorded.FilterMessage("from context").Len())
}

func TestL_NoFields(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, L(context.Background(), base))
}
