package health_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/memoize/cache"
	"github.com/jonwraymond/memoize/health"
)

func ExampleNewEntriesChecker() {
	square, _ := cache.Wrap(func(_ context.Context, n int) (int, error) {
		return n * n, nil
	}, cache.Config[int]{})

	check, err := health.NewEntriesChecker(square, health.EntriesConfig{
		Name:     "square",
		Warning:  2,
		Critical: 10,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ctx := context.Background()
	for n := range 3 {
		_, _ = square.Call(ctx, n)
	}

	result := check.Check(ctx)
	fmt.Println(result.Status, result.Message)
	// Output:
	// degraded 3 entries, warning at 2
}

func ExampleAggregator() {
	agg, _ := health.NewAggregator(health.AggregatorConfig{})
	_ = agg.Register(health.NewCheckerFunc("upstream", func(context.Context) health.Result {
		return health.Healthy("reachable")
	}))

	results := agg.CheckAll(context.Background())
	fmt.Println(health.OverallStatus(results), results["upstream"].Message)
	// Output:
	// healthy reachable
}
