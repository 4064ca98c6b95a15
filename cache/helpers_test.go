package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/memoize/observe"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// outcomeRecorder counts lookups by outcome.
type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes map[observe.Outcome]int
	computes atomic.Int64
}

func newOutcomeRecorder() *outcomeRecorder {
	return &outcomeRecorder{outcomes: make(map[observe.Outcome]int)}
}

func (r *outcomeRecorder) RecordLookup(_ context.Context, _ observe.FuncMeta, outcome observe.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *outcomeRecorder) RecordCompute(context.Context, observe.FuncMeta, time.Duration, error) {
	r.computes.Add(1)
}

func (r *outcomeRecorder) count(outcome observe.Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[outcome]
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// countingFunc returns a Func that counts invocations and echoes a value
// derived from its argument.
func countingFunc(calls *atomic.Int64) Func[int, string] {
	return func(_ context.Context, n int) (string, error) {
		calls.Add(1)
		return "value-" + string(rune('a'+n)), nil
	}
}
