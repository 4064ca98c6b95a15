package cache

import (
	"context"
	"sync"
)

// Future is a handle to a computation that settles once, to a value or a failure.
// Any number of goroutines may wait on it and all observe the same outcome.
type Future[V any] struct {
	once sync.Once
	done chan struct{}
	val  V
	err  error
}

// NewFuture returns an unsettled Future. Settle it with Resolve.
func NewFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Resolved returns a Future already settled to v.
func Resolved[V any](v V) *Future[V] {
	f := NewFuture[V]()
	f.Resolve(v, nil)
	return f
}

// Failed returns a Future already settled to err.
func Failed[V any](err error) *Future[V] {
	f := NewFuture[V]()
	var zero V
	f.Resolve(zero, err)
	return f
}

// Async runs fn in a new goroutine and returns a Future for its result.
// A panic in fn settles the Future with a *PanicError.
func Async[V any](ctx context.Context, fn func(context.Context) (V, error)) *Future[V] {
	f := NewFuture[V]()
	go func() {
		v, err := protect(func() (V, error) { return fn(ctx) })
		f.Resolve(v, err)
	}()
	return f
}

// Resolve settles the Future. Only the first call has an effect; it reports
// whether this call settled it.
func (f *Future[V]) Resolve(v V, err error) bool {
	settled := false
	f.once.Do(func() {
		if err == nil {
			f.val = v
		}
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed when the Future settles.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the Future has settled.
func (f *Future[V]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the Future settles or ctx is done. A settled outcome
// wins over a done context. Abandoning the wait does not cancel the computation.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// result returns the outcome of a settled Future.
func (f *Future[V]) result() (V, error) {
	<-f.done
	return f.val, f.err
}

// protect calls fn, converting a panic into a *PanicError.
func protect[V any](fn func() (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			v, err = zero, &PanicError{Value: r}
		}
	}()
	return fn()
}
