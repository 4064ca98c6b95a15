package cache

import (
	"errors"
	"time"

	"github.com/jonwraymond/memoize/observe"
)

// Option configures the ambient behavior of a Memoized function:
// identity, telemetry and clock.
type Option func(*options) error

type options struct {
	meta     observe.FuncMeta
	logger   observe.Logger
	metrics  observe.Metrics
	tracer   observe.Tracer
	observer observe.Observer
	now      func() time.Time
}

func defaultOptions() options {
	return options{
		meta: observe.FuncMeta{Name: "memoized"},
		now:  time.Now,
	}
}

// instrumentation assembles the telemetry bundle. Explicit components take
// precedence over those derived from an Observer.
func (o *options) instrumentation() (*observe.Instrumentation, error) {
	if o.observer == nil {
		return observe.NewInstrumentation(o.meta, o.tracer, o.metrics, o.logger), nil
	}
	return observe.InstrumentationFromObserver(o.observer, o.meta, o.tracer, o.metrics, o.logger)
}

// WithName sets the function name reported in logs, metrics and spans.
func WithName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return errors.New("cache: name must not be empty")
		}
		o.meta.Name = name
		return nil
	}
}

// WithNamespace sets an optional namespace qualifying the function name.
func WithNamespace(ns string) Option {
	return func(o *options) error {
		o.meta.Namespace = ns
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l observe.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}

// WithTracer sets the tracer used for underlying computations.
func WithTracer(t observe.Tracer) Option {
	return func(o *options) error {
		o.tracer = t
		return nil
	}
}

// WithObserver derives tracer, metrics and logger from obs for any
// component not set explicitly.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) error {
		if obs == nil {
			return observe.ErrNilObserver
		}
		o.observer = obs
		return nil
	}
}

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.New("cache: clock must not be nil")
		}
		o.now = now
		return nil
	}
}
