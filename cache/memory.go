package cache

import (
	"container/list"
	"sync"
)

// MemoryStore is an in-memory Store that preserves insertion order.
type MemoryStore[V any] struct {
	mu      sync.RWMutex
	entries map[string]*list.Element
	order   *list.List
}

type memoryItem[V any] struct {
	key   string
	entry Entry[V]
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the entry stored under key.
func (s *MemoryStore[V]) Get(key string) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	return el.Value.(*memoryItem[V]).entry, true
}

// Set stores entry under key, replacing any previous entry in place.
func (s *MemoryStore[V]) Set(key string, entry Entry[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		el.Value.(*memoryItem[V]).entry = entry
		return
	}
	s.entries[key] = s.order.PushBack(&memoryItem[V]{key: key, entry: entry})
}

// Delete removes key. Idempotent - no-op on miss.
func (s *MemoryStore[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.order.Remove(el)
		delete(s.entries, key)
	}
}

// Clear removes every entry.
func (s *MemoryStore[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
	s.order.Init()
}

// Len returns the number of stored entries.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns all keys, oldest first.
func (s *MemoryStore[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for el := s.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*memoryItem[V]).key)
	}
	return keys
}

// Ensure MemoryStore implements Store
var _ Store[any] = (*MemoryStore[any])(nil)
