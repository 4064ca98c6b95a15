package cache

import "time"

// Entry is one memoized result.
//
// Exactly one of Value, Pending or Err is meaningful: a settled value, a
// computation still in flight, or a cached failure.
type Entry[V any] struct {
	Value     V
	Pending   *Future[V]
	Err       error
	ExpiresAt time.Time
}

// IsError reports whether the entry holds a cached failure.
func (e Entry[V]) IsError() bool {
	return e.Err != nil
}

// IsPending reports whether the entry is a placeholder for an in-flight computation.
func (e Entry[V]) IsPending() bool {
	return e.Pending != nil
}

// Expired reports whether the entry is stale at now. An entry is live while
// now <= ExpiresAt.
func (e Entry[V]) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
