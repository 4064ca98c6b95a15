package cache

// StoreReader is the read-only view of an entry store.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Keys: returned in insertion order; the slice is a copy.
type StoreReader[V any] interface {
	// Get returns the entry for key. Expiry is not applied.
	Get(key string) (Entry[V], bool)

	// Len returns the number of entries, expired ones included.
	Len() int

	// Keys returns every fingerprint in insertion order.
	Keys() []string
}

// Store maps fingerprints to entries.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Set overwrites; an existing key keeps its position in Keys.
// - Delete is idempotent.
// - No eviction: entries leave only through Delete or Clear.
type Store[V any] interface {
	StoreReader[V]

	Set(key string, entry Entry[V])
	Delete(key string)
	Clear()
}
