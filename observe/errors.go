package observe

import "errors"

var (
	// ErrMissingServiceName indicates Config.ServiceName is empty.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct indicates Tracing.SamplePct lies outside [0, 1].
	ErrInvalidSamplePct = errors.New("observe: sample percentage out of range")

	// ErrInvalidTracingExporter indicates a tracing exporter name NewObserver cannot build.
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")

	// ErrInvalidMetricsExporter indicates a metrics exporter name NewObserver cannot build.
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")

	// ErrInvalidLogLevel indicates a log level Validate does not accept.
	ErrInvalidLogLevel = errors.New("observe: invalid log level")

	// ErrNilObserver indicates a nil Observer was provided.
	ErrNilObserver = errors.New("observe: observer is nil")
)
