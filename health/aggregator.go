package health

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/memoize/observe"
)

// Default aggregator settings.
const (
	DefaultCheckTimeout = 5 * time.Second
	DefaultConcurrency  = 8
)

// AggregatorConfig configures an Aggregator.
type AggregatorConfig struct {
	// Timeout bounds a whole CheckAll run. Zero means DefaultCheckTimeout.
	Timeout time.Duration

	// Concurrency caps how many checks run at once. Zero means
	// DefaultConcurrency; 1 runs checks sequentially in registration order.
	Concurrency int

	// Logger receives a warning for every check that is not healthy.
	// Nil disables logging.
	Logger observe.Logger
}

// Validate reports configuration errors.
func (c AggregatorConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency %d", ErrInvalidConfig, c.Concurrency)
	}
	return nil
}

// Aggregator runs a set of named checkers and combines their results.
type Aggregator struct {
	cfg      AggregatorConfig
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewAggregator creates an Aggregator.
func NewAggregator(cfg AggregatorConfig) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultCheckTimeout
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	return &Aggregator{cfg: cfg, checkers: make(map[string]Checker)}, nil
}

// Register adds c under its Name, replacing any checker with the same name
// while keeping its original position.
func (a *Aggregator) Register(c Checker) error {
	if c == nil {
		return ErrNilChecker
	}
	name := c.Name()

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = c
	return nil
}

// Unregister removes the checker registered under name.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.checkers, name)
	a.order = slices.DeleteFunc(a.order, func(n string) bool { return n == name })
}

// Names returns registered checker names in registration order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.order)
}

// Check runs the checker registered under name.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	c, ok := a.checkers[name]
	a.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrCheckerNotFound, name)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	return a.run(ctx, c), nil
}

// CheckAll runs every registered checker under one deadline and returns the
// results keyed by name. Checks still running at the deadline are reported
// unhealthy with ErrCheckTimeout.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make([]Checker, 0, len(a.order))
	for _, name := range a.order {
		checkers = append(checkers, a.checkers[name])
	}
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	results := make([]Result, len(checkers))
	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = a.run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Result, len(checkers))
	for i, c := range checkers {
		out[c.Name()] = results[i]
	}
	return out
}

// OverallStatus returns the worst status in results; healthy when empty.
func OverallStatus(results map[string]Result) Status {
	status := StatusHealthy
	for _, r := range results {
		status = status.Worse(r.Status)
	}
	return status
}

// run executes one check, abandoning it if ctx ends first.
func (a *Aggregator) run(ctx context.Context, c Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)
	go func() {
		done <- c.Check(ctx)
	}()

	var r Result
	select {
	case r = <-done:
	case <-ctx.Done():
		r = Unhealthy("check timed out", ErrCheckTimeout)
	}
	r.Duration = time.Since(start)
	if r.Timestamp.IsZero() {
		r.Timestamp = start
	}

	if r.Status != StatusHealthy {
		fields := []observe.Field{
			{Key: "check", Value: c.Name()},
			{Key: "status", Value: r.Status.String()},
			{Key: "message", Value: r.Message},
		}
		if r.Error != nil {
			fields = append(fields, observe.Field{Key: "error", Value: r.Error.Error()})
		}
		a.cfg.Logger.Warn(ctx, "health check not healthy", fields...)
	}
	return r
}
