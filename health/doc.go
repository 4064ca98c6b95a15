// Package health reports the health of memoized functions.
//
// Memoized stores are purged lazily, so a function called with a steady
// stream of new arguments keeps growing. [EntriesChecker] turns the entry
// count into a health status with warning and critical thresholds.
//
//	prices, _ := cache.Wrap(fetchPrice, cache.Config[string]{})
//	check, _ := health.NewEntriesChecker(prices, health.EntriesConfig{
//	    Name:     "prices",
//	    Warning:  50_000,
//	    Critical: 200_000,
//	})
//
// An [Aggregator] runs registered checkers concurrently under one deadline
// and combines their results:
//
//	agg, _ := health.NewAggregator(health.AggregatorConfig{})
//	_ = agg.Register(check)
//	status := health.OverallStatus(agg.CheckAll(ctx))
//
// [RegisterHandlers] exposes the aggregator over HTTP as liveness, readiness
// and detailed JSON endpoints.
package health
