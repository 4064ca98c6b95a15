package observe

import (
	"context"
	"time"
)

// Instrumentation bundles tracing, metrics and logging for one memoized function.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: StartCompute propagates the span through the returned context.
//   - Errors: errors passed to the finish func are recorded, never altered.
type Instrumentation struct {
	meta    FuncMeta
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrumentation creates an Instrumentation. Nil components fall back to no-ops.
func NewInstrumentation(meta FuncMeta, tracer Tracer, metrics Metrics, logger Logger) *Instrumentation {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Instrumentation{
		meta:    meta,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.WithFunc(meta),
	}
}

// InstrumentationFromObserver builds an Instrumentation from obs's providers.
// A non-nil tracer, metrics or logger is used instead of the one derived
// from obs.
func InstrumentationFromObserver(obs Observer, meta FuncMeta, tracer Tracer, metrics Metrics, logger Logger) (*Instrumentation, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	if tracer == nil {
		tracer = NewTracer(obs.Tracer())
	}
	if metrics == nil {
		m, err := NewMetrics(obs.Meter())
		if err != nil {
			return nil, err
		}
		metrics = m
	}
	if logger == nil {
		logger = obs.Logger()
	}
	return NewInstrumentation(meta, tracer, metrics, logger), nil
}

// Meta returns the function identity this Instrumentation reports under.
func (in *Instrumentation) Meta() FuncMeta {
	return in.meta
}

// Logger returns the function-scoped logger.
func (in *Instrumentation) Logger() Logger {
	return in.logger
}

// Lookup records the outcome of a store lookup.
func (in *Instrumentation) Lookup(ctx context.Context, outcome Outcome) {
	in.metrics.RecordLookup(ctx, in.meta, outcome)
	in.logger.Debug(ctx, "memo lookup", Field{Key: "outcome", Value: string(outcome)})
}

// StartCompute opens a span for an underlying computation. The returned
// finish func must be called exactly once when the computation settles.
func (in *Instrumentation) StartCompute(ctx context.Context) (context.Context, func(err error)) {
	ctx, span := in.tracer.StartSpan(ctx, in.meta)
	start := time.Now()

	return ctx, func(err error) {
		duration := time.Since(start)
		in.tracer.EndSpan(span, err)
		in.metrics.RecordCompute(ctx, in.meta, duration, err)

		fields := []Field{{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000}}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			in.logger.Error(ctx, "memo computation failed", fields...)
			return
		}
		in.logger.Info(ctx, "memo computation completed", fields...)
	}
}
