// Package observe provides observability primitives for memoized functions.
//
// It is a pure instrumentation library: no caching, no transport, no I/O
// beyond exporter setup. The cache package consumes an [Instrumentation]
// to record lookups (hit, miss, join, cached error, expired) and to trace
// each underlying computation.
package observe
