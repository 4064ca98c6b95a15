package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/memoize/observe"
)

// Func is a synchronous function that can be memoized.
type Func[A, V any] func(ctx context.Context, arg A) (V, error)

// AsyncFunc starts a computation and returns a handle to it. A non-nil
// error is a failure to start; the Future carries the computation's outcome.
type AsyncFunc[A, V any] func(ctx context.Context, arg A) (*Future[V], error)

// Stats is a snapshot of a Memoized function's store. Keys may include
// entries that are expired but not yet purged.
type Stats struct {
	Size int
	Keys []string
}

// Memoized is a function wrapped with a result cache.
//
// Contract:
//   - Concurrency: safe for concurrent use. For a fingerprint with a
//     computation in flight, every call joins that computation; the
//     underlying function runs at most once per fingerprint at a time.
//   - Context: the underlying function runs under a context that keeps the
//     caller's values but not its cancellation, since joined callers share
//     the computation. A caller whose ctx ends stops waiting with ctx.Err().
//   - Errors: failures are returned unchanged. A cached failure is returned
//     as the same error value on every hit.
//   - Ownership: each Memoized owns its store; nothing is shared between
//     wrapped functions.
type Memoized[A, V any] struct {
	mu     sync.Mutex // serializes lookup-then-reserve and settlement
	invoke AsyncFunc[A, V]
	cfg    Config[A]
	store  *MemoryStore[V]
	instr  *observe.Instrumentation
	now    func() time.Time
}

// Wrap memoizes a synchronous function.
func Wrap[A, V any](fn Func[A, V], cfg Config[A], opts ...Option) (*Memoized[A, V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	return newMemoized(func(ctx context.Context, arg A) (*Future[V], error) {
		v, err := fn(ctx, arg)
		if err != nil {
			return nil, err
		}
		return Resolved(v), nil
	}, cfg, opts)
}

// WrapAsync memoizes a function that returns a Future. The pending Future is
// visible to concurrent callers until it settles.
func WrapAsync[A, V any](fn AsyncFunc[A, V], cfg Config[A], opts ...Option) (*Memoized[A, V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	return newMemoized(fn, cfg, opts)
}

func newMemoized[A, V any](invoke AsyncFunc[A, V], cfg Config[A], opts []Option) (*Memoized[A, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	instr, err := o.instrumentation()
	if err != nil {
		return nil, err
	}

	return &Memoized[A, V]{
		invoke: invoke,
		cfg:    cfg.withDefaults(),
		store:  NewMemoryStore[V](),
		instr:  instr,
		now:    o.now,
	}, nil
}

// Call returns the memoized result for arg, computing it on a miss.
func (m *Memoized[A, V]) Call(ctx context.Context, arg A) (V, error) {
	var zero V

	key, err := m.cfg.KeyGenerator(arg)
	if err != nil {
		return zero, err
	}

	m.mu.Lock()
	entry, found, purged := m.lookupLocked(key)
	var placeholder *Future[V]
	if !found {
		// Reserve the fingerprint before invoking so concurrent callers join.
		placeholder = NewFuture[V]()
		m.store.Set(key, Entry[V]{Pending: placeholder, ExpiresAt: m.now().Add(m.cfg.TTL)})
	}
	m.mu.Unlock()

	if purged {
		m.instr.Lookup(ctx, observe.OutcomeExpired)
	}
	if found {
		return m.serve(ctx, entry)
	}

	m.instr.Lookup(ctx, observe.OutcomeMiss)
	m.dispatch(ctx, key, arg, placeholder)
	return placeholder.Wait(ctx)
}

// Func returns Call as a plain function with the wrapped function's signature.
func (m *Memoized[A, V]) Func() Func[A, V] {
	return m.Call
}

// lookupLocked returns the live entry for key, purging it if expired.
func (m *Memoized[A, V]) lookupLocked(key string) (entry Entry[V], found, purged bool) {
	entry, ok := m.store.Get(key)
	if !ok {
		return entry, false, false
	}
	if entry.Expired(m.now()) {
		m.store.Delete(key)
		return Entry[V]{}, false, true
	}
	return entry, true, false
}

func (m *Memoized[A, V]) serve(ctx context.Context, entry Entry[V]) (V, error) {
	switch {
	case entry.IsError():
		m.instr.Lookup(ctx, observe.OutcomeErrorHit)
		var zero V
		return zero, entry.Err
	case entry.IsPending():
		m.instr.Lookup(ctx, observe.OutcomeJoin)
		return entry.Pending.Wait(ctx)
	default:
		m.instr.Lookup(ctx, observe.OutcomeHit)
		return entry.Value, nil
	}
}

// dispatch invokes the underlying function and arranges for placeholder to
// settle with its outcome. Immediate results settle before dispatch returns.
func (m *Memoized[A, V]) dispatch(ctx context.Context, key string, arg A, placeholder *Future[V]) {
	runCtx, finish := m.instr.StartCompute(context.WithoutCancel(ctx))
	complete := func(v V, err error) {
		finish(err)
		m.settle(key, placeholder, v, err)
	}

	pending, err := protect(func() (*Future[V], error) { return m.invoke(runCtx, arg) })
	if err == nil && pending == nil {
		err = ErrNilFuture
	}
	if err != nil {
		var zero V
		complete(zero, err)
		return
	}

	if pending.Settled() {
		complete(pending.result())
		return
	}
	go func() {
		complete(pending.result())
	}()
}

// settle writes the outcome through to the store, then releases every caller
// waiting on placeholder. The store is only touched if the entry for key is
// still this computation's placeholder; a Clear or a newer computation wins.
func (m *Memoized[A, V]) settle(key string, placeholder *Future[V], v V, err error) {
	m.mu.Lock()
	if current, ok := m.store.Get(key); ok && current.Pending == placeholder {
		switch {
		case err == nil:
			m.store.Set(key, Entry[V]{Value: v, ExpiresAt: m.now().Add(m.cfg.TTL)})
		case m.cfg.CacheErrors:
			m.store.Set(key, Entry[V]{Err: err, ExpiresAt: m.now().Add(m.cfg.ErrorTTL)})
		default:
			m.store.Delete(key)
		}
	}
	m.mu.Unlock()

	placeholder.Resolve(v, err)
}

// Clear with no arguments empties the store. Otherwise it deletes the entry
// for each argument, fingerprinted with the configured KeyGenerator.
func (m *Memoized[A, V]) Clear(args ...A) error {
	if len(args) == 0 {
		m.mu.Lock()
		m.store.Clear()
		m.mu.Unlock()
		return nil
	}

	keys := make([]string, 0, len(args))
	for _, arg := range args {
		key, err := m.cfg.KeyGenerator(arg)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	m.mu.Lock()
	for _, key := range keys {
		m.store.Delete(key)
	}
	m.mu.Unlock()
	return nil
}

// Stats returns the entry count and fingerprints in insertion order.
func (m *Memoized[A, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Size: m.store.Len(), Keys: m.store.Keys()}
}

// Len returns the number of entries, expired ones included.
func (m *Memoized[A, V]) Len() int {
	return m.store.Len()
}

// Store returns a read-only view of the entry store for diagnostics.
func (m *Memoized[A, V]) Store() StoreReader[V] {
	return m.store
}

// Warm calls the function for every argument concurrently and returns the
// first failure. Arguments already cached or in flight are not recomputed.
func (m *Memoized[A, V]) Warm(ctx context.Context, args ...A) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, arg := range args {
		g.Go(func() error {
			_, err := m.Call(gctx, arg)
			return err
		})
	}
	return g.Wait()
}
