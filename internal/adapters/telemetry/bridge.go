package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/prefab/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor by logging every finished
// span with its duration.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	msg := fmt.Sprintf("%s took %s", spanName(s), s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))
	if s.Status().Code == codes.Error {
		b.logger.Warn(msg + " (failed: " + s.Status().Description + ")")
		return
	}
	b.logger.Info(msg)
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

// spanName appends the type attribute, when present, to the span name.
func spanName(s sdktrace.ReadOnlySpan) string {
	for _, kv := range s.Attributes() {
		if kv.Key == "type" {
			return s.Name() + " " + kv.Value.Emit()
		}
	}
	return s.Name()
}

// Install registers a global tracer provider that reports spans to the
// given processors. The returned function shuts the provider down.
func Install(processors ...sdktrace.SpanProcessor) func(context.Context) error {
	opts := make([]sdktrace.TracerProviderOption, len(processors))
	for i, p := range processors {
		opts[i] = sdktrace.WithSpanProcessor(p)
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
