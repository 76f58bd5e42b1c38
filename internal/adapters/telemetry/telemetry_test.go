package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/prefab/internal/adapters/telemetry"
	"go.trai.ch/prefab/internal/core/ports"
)

func setupRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func attrs(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestOTelTracer_Start(t *testing.T) {
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test-tracer", telemetry.WithProvider(tp))

	_, span := tracer.Start(context.Background(), "give", ports.WithAttribute("type", "main.Node"))
	span.SetAttribute("cached", true)
	span.SetAttribute("depth", 3)
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("names", []string{"a", "b"})
	span.SetAttribute("other", struct{ X int }{1})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "give", spans[0].Name())

	got := attrs(spans[0].Attributes())
	assert.Equal(t, "main.Node", got["type"].AsString())
	assert.True(t, got["cached"].AsBool())
	assert.Equal(t, int64(3), got["depth"].AsInt64())
	assert.InDelta(t, 0.5, got["ratio"].AsFloat64(), 0)
	assert.Equal(t, []string{"a", "b"}, got["names"].AsStringSlice())
	assert.Equal(t, "{1}", got["other"].AsString())
}

func TestOTelTracer_RecordError(t *testing.T) {
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test-tracer", telemetry.WithProvider(tp))

	_, span := tracer.Start(context.Background(), "give")
	span.RecordError(nil)
	span.RecordError(errors.New("unregistered type"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "unregistered type", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestOTelTracer_EmitRequest(t *testing.T) {
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test-tracer", telemetry.WithProvider(tp))

	// Without a span in the context nothing is recorded.
	tracer.EmitRequest(context.Background(), []string{"int"})
	assert.Empty(t, sr.Ended())

	ctx, span := tracer.Start(context.Background(), "show")
	tracer.EmitRequest(ctx, []string{"int", "string"})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "types_requested", events[0].Name)
	assert.Equal(t, []string{"int", "string"}, attrs(events[0].Attributes)["types"].AsStringSlice())
}

func TestOTelTracer_ChildSpans(t *testing.T) {
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracer("test-tracer", telemetry.WithProvider(tp))

	ctx, parent := tracer.Start(context.Background(), "show")
	_, child := tracer.Start(ctx, "give")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	newCtx, span := tracer.Start(ctx, "test-span", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	tracer.EmitRequest(ctx, []string{"int"})
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}
