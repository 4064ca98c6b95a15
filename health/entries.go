package health

import (
	"context"
	"fmt"
)

// Sizer reports a current entry count. *cache.Memoized and every
// cache.StoreReader satisfy it.
type Sizer interface {
	Len() int
}

// Default entry thresholds.
const (
	DefaultEntriesWarning  = 10_000
	DefaultEntriesCritical = 100_000
)

// EntriesConfig configures an EntriesChecker.
type EntriesConfig struct {
	// Name identifies the checker, typically the memoized function's name.
	Name string

	// Warning is the entry count at which the check reports degraded.
	// Zero means DefaultEntriesWarning.
	Warning int

	// Critical is the entry count at which the check reports unhealthy.
	// Zero means DefaultEntriesCritical.
	Critical int
}

// Validate reports configuration errors.
func (c EntriesConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if c.Warning < 0 || c.Critical < 0 {
		return fmt.Errorf("%w: thresholds must not be negative", ErrInvalidConfig)
	}
	if c.Warning > 0 && c.Critical > 0 && c.Critical < c.Warning {
		return fmt.Errorf("%w: critical %d below warning %d", ErrInvalidConfig, c.Critical, c.Warning)
	}
	return nil
}

// EntriesChecker watches how many entries a memoized function holds.
// Expired entries are only purged when their fingerprint is looked up again,
// so a function called with ever-new arguments grows without bound.
type EntriesChecker struct {
	cfg  EntriesConfig
	size Sizer
}

// NewEntriesChecker creates a checker over size.
func NewEntriesChecker(size Sizer, cfg EntriesConfig) (*EntriesChecker, error) {
	if size == nil {
		return nil, ErrNilSizer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Warning == 0 {
		cfg.Warning = DefaultEntriesWarning
	}
	if cfg.Critical == 0 {
		cfg.Critical = max(DefaultEntriesCritical, cfg.Warning)
	}
	return &EntriesChecker{cfg: cfg, size: size}, nil
}

// Name returns the configured name.
func (c *EntriesChecker) Name() string {
	return c.cfg.Name
}

// Check compares the current entry count with the thresholds.
func (c *EntriesChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	n := c.size.Len()
	details := map[string]any{
		"entries":  n,
		"warning":  c.cfg.Warning,
		"critical": c.cfg.Critical,
	}

	switch {
	case n >= c.cfg.Critical:
		return Unhealthy(fmt.Sprintf("%d entries, critical at %d", n, c.cfg.Critical), ErrThresholdExceeded).
			WithDetails(details)
	case n >= c.cfg.Warning:
		return Degraded(fmt.Sprintf("%d entries, warning at %d", n, c.cfg.Warning)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("%d entries", n)).WithDetails(details)
	}
}

var _ Checker = (*EntriesChecker)(nil)
