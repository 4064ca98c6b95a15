package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// FuncMeta identifies a memoized function for telemetry purposes.
type FuncMeta struct {
	Namespace string // optional grouping, e.g. the owning package
	Name      string // function name
}

// FuncID returns the fully qualified function identifier: namespace.name or name.
func (m FuncMeta) FuncID() string {
	if m.Namespace != "" {
		return m.Namespace + "." + m.Name
	}
	return m.Name
}

// SpanName returns the span name used for an underlying computation.
// Format: memo.compute.<namespace>.<name> or memo.compute.<name>
func (m FuncMeta) SpanName() string {
	return "memo.compute." + m.FuncID()
}

func (m FuncMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("func.id", m.FuncID()),
		attribute.String("func.name", m.Name),
	}
	if m.Namespace != "" {
		attrs = append(attrs, attribute.String("func.namespace", m.Namespace))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing around underlying computations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for one underlying computation.
	StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording err when non-nil.
	EndSpan(span trace.Span, err error)
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &otelTracer{tracer: t}
}

func (t *otelTracer) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("memo.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *otelTracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("memo.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NopTracer returns a Tracer whose spans are non-recording.
func NopTracer() Tracer {
	return &otelTracer{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
}
