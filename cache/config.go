package cache

import (
	"fmt"
	"time"
)

// Default durations.
const (
	DefaultTTL      = 5 * time.Minute
	DefaultErrorTTL = 30 * time.Second
)

// Config configures memoization for one function.
// The zero value is valid and yields the defaults.
type Config[A any] struct {
	// TTL is how long a successful result stays live, counted from settlement.
	// Zero means DefaultTTL.
	TTL time.Duration

	// KeyGenerator fingerprints arguments. Nil means DefaultKey.
	KeyGenerator KeyFunc[A]

	// CacheErrors caches failures for ErrorTTL instead of discarding them.
	CacheErrors bool

	// ErrorTTL is how long a cached failure stays live. Only used when
	// CacheErrors is set. Zero means DefaultErrorTTL.
	ErrorTTL time.Duration
}

// DefaultConfig returns the default configuration:
// TTL 5 minutes, errors not cached, ErrorTTL 30 seconds.
func DefaultConfig[A any]() Config[A] {
	return Config[A]{
		TTL:          DefaultTTL,
		KeyGenerator: DefaultKey[A],
		ErrorTTL:     DefaultErrorTTL,
	}
}

// Validate reports configuration errors.
func (c Config[A]) Validate() error {
	if c.TTL < 0 {
		return fmt.Errorf("%w: ttl %s", ErrInvalidTTL, c.TTL)
	}
	if c.ErrorTTL < 0 {
		return fmt.Errorf("%w: error ttl %s", ErrInvalidTTL, c.ErrorTTL)
	}
	return nil
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config[A]) withDefaults() Config[A] {
	d := DefaultConfig[A]()
	if c.TTL == 0 {
		c.TTL = d.TTL
	}
	if c.ErrorTTL == 0 {
		c.ErrorTTL = d.ErrorTTL
	}
	if c.KeyGenerator == nil {
		c.KeyGenerator = d.KeyGenerator
	}
	return c
}
