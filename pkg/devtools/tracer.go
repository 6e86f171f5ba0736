package devtools

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for reactivity spans.
const defaultTracerName = "reactivity"

// Tracer is a Sink that emits one span per trigger event. Track events are
// too frequent to be useful as spans and are ignored; stop events become
// zero-length spans.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given with WithTracerProvider.
type Tracer struct {
	tracer trace.Tracer
}

// TracerOption configures a Tracer.
type TracerOption func(*tracerConfig)

type tracerConfig struct {
	name     string
	provider trace.TracerProvider
}

// WithTracerName sets the instrumentation name.
func WithTracerName(name string) TracerOption {
	return func(c *tracerConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *tracerConfig) {
		c.provider = tp
	}
}

// NewTracer creates a tracing sink.
func NewTracer(opts ...TracerOption) *Tracer {
	config := tracerConfig{name: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.provider == nil {
		config.provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: config.provider.Tracer(config.name)}
}

// Record implements Sink.
func (t *Tracer) Record(e Event) {
	if e.Kind == KindTrack {
		return
	}
	_, span := t.tracer.Start(context.Background(), spanName(e),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(spanAttributes(e)...),
		trace.WithTimestamp(e.Time),
	)
	span.End(trace.WithTimestamp(e.Time))
}

func spanName(e Event) string {
	if e.Kind == KindStop {
		return "reactivity.stop"
	}
	return "reactivity." + e.Op
}

func spanAttributes(e Event) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("reactivity.effect", e.Effect),
		attribute.Int64("reactivity.effect_id", int64(e.EffectID)),
	}
	if e.Target != "" {
		attrs = append(attrs, attribute.String("reactivity.target", e.Target))
	}
	if e.Key != "" {
		attrs = append(attrs, attribute.String("reactivity.key", e.Key))
	}
	return attrs
}
