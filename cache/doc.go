// Package cache memoizes Go functions.
//
// [Wrap] and [WrapAsync] turn a function into a [Memoized] whose results are
// stored under an argument fingerprint for a TTL window. Calls arriving while
// a computation for the same fingerprint is in flight join it instead of
// invoking the function again. Failures are propagated unchanged and, when
// Config.CacheErrors is set, cached for the shorter Config.ErrorTTL.
//
// Expired entries are purged lazily, on the next lookup of their fingerprint;
// nothing runs in the background.
package cache
