package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for render passes.
const defaultTracerName = "hart"

// TracingConfig configures pass tracing.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "hart").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Attributes are added to every pass span, e.g. the app name.
	Attributes []attribute.KeyValue
}

// TracingOption configures pass tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithSpanAttributes adds attributes to every pass span.
func WithSpanAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer wraps render passes in spans.
type Tracer struct {
	config TracingConfig
	tracer trace.Tracer
}

// NewTracer resolves a tracer from the configured provider.
//
// Configure the global provider in main() before rendering:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracingOption) *Tracer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{config: config, tracer: tracer}
}

// Start opens the span for pass seq. The returned context carries it.
func (t *Tracer) Start(ctx context.Context, seq uint64, mount bool) (context.Context, trace.Span) {
	name := "hart.patch"
	if mount {
		name = "hart.mount"
	}
	attrs := append([]attribute.KeyValue{
		attribute.Int64("hart.pass", int64(seq)),
	}, t.config.Attributes...)

	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
}

// Phase records the end of a phase as a span event.
func (t *Tracer) Phase(span trace.Span, phase string, d time.Duration) {
	span.AddEvent(phase, trace.WithAttributes(
		attribute.Int64("hart.duration_us", d.Microseconds()),
	))
}

// End records the pass outcome on span and ends it.
func (t *Tracer) End(span trace.Span, p *Pass) {
	defer span.End()

	span.SetAttributes(
		attribute.Int("hart.ops", len(p.Ops)),
		attribute.Int("hart.renders", p.Renders),
		attribute.Int("hart.reused", p.Reused),
		attribute.Int("hart.nodes", p.Nodes),
		attribute.Int("hart.entries", p.Entries),
	)
	if p.Err != nil {
		span.RecordError(p.Err)
		span.SetStatus(codes.Error, p.Err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// SpanFromContext returns the pass span carried by ctx, if any.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
