package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies a single lookup against a memoized function's store.
type Outcome string

const (
	// OutcomeHit means a settled value was served from the store.
	OutcomeHit Outcome = "hit"
	// OutcomeMiss means no live entry existed and a computation was started.
	OutcomeMiss Outcome = "miss"
	// OutcomeJoin means the caller joined an in-flight computation.
	OutcomeJoin Outcome = "join"
	// OutcomeErrorHit means a cached failure was re-raised.
	OutcomeErrorHit Outcome = "error_hit"
	// OutcomeExpired means an expired entry was purged; a miss follows.
	OutcomeExpired Outcome = "expired"
)

// Metrics records cache metrics for memoized functions.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records the outcome of one call's store lookup.
	RecordLookup(ctx context.Context, meta FuncMeta, outcome Outcome)

	// RecordCompute records one underlying computation with its duration and error status.
	RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error)
}

type otelMetrics struct {
	lookups      metric.Int64Counter
	computes     metric.Int64Counter
	errors       metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the memoization instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookups, err := meter.Int64Counter(
		"memo.lookups",
		metric.WithDescription("Calls to memoized functions by lookup outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	computes, err := meter.Int64Counter(
		"memo.compute.total",
		metric.WithDescription("Underlying function invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"memo.compute.errors",
		metric.WithDescription("Underlying function invocations that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"memo.compute.duration_ms",
		metric.WithDescription("Underlying function duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lookups:      lookups,
		computes:     computes,
		errors:       errs,
		durationHist: durationHist,
	}, nil
}

func (m *otelMetrics) RecordLookup(ctx context.Context, meta FuncMeta, outcome Outcome) {
	attrs := append(meta.attributes(), attribute.String("memo.outcome", string(outcome)))
	m.lookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *otelMetrics) RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.computes.Add(ctx, 1, opt)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) RecordLookup(context.Context, FuncMeta, Outcome) {}

func (nopMetrics) RecordCompute(context.Context, FuncMeta, time.Duration, error) {}
