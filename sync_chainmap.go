package chainmap

import (
	"sync"
	"unsafe"
)

// SyncChainedMap guards a ChainedMap with one exclusive lock.
//
// Every method, reads included, holds the lock for its whole duration,
// and resizes run under it as well, so no caller ever observes a table
// mid-rehash. There is no per-bucket locking.
//
// A SyncChainedMap must not be copied after first use.
// The zero value is ready to use with the default configuration.
type SyncChainedMap[K comparable, V any] struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		mu sync.Mutex
		m  unsafe.Pointer
	}{})%CacheLineSize) % CacheLineSize]byte

	mu sync.Mutex
	m  *ChainedMap[K, V]
}

// NewSyncChainedMap creates a SyncChainedMap. Options are the same as New.
func NewSyncChainedMap[K comparable, V any](options ...func(*MapConfig)) *SyncChainedMap[K, V] {
	return &SyncChainedMap[K, V]{m: New[K, V](options...)}
}

// lock acquires the mutex and returns the inner map, creating it on
// first use.
func (s *SyncChainedMap[K, V]) lock() *ChainedMap[K, V] {
	s.mu.Lock()
	if s.m == nil {
		s.m = New[K, V]()
	}
	return s.m
}

// Get returns the value stored for key and whether it was present.
func (s *SyncChainedMap[K, V]) Get(key K) (V, bool) {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Get(key)
}

// Put inserts or updates key and returns the index of the bucket written.
func (s *SyncChainedMap[K, V]) Put(key K, value V) int {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Put(key, value)
}

// Delete removes key and reports whether it was present.
func (s *SyncChainedMap[K, V]) Delete(key K) bool {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Delete(key)
}

// Resize rehashes the map into newCapacity buckets.
func (s *SyncChainedMap[K, V]) Resize(newCapacity int) error {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Resize(newCapacity)
}

// Has reports whether key is present.
func (s *SyncChainedMap[K, V]) Has(key K) bool {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Has(key)
}

// Lookup returns the value for key, or a *KeyError if it is absent.
func (s *SyncChainedMap[K, V]) Lookup(key K) (V, error) {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Lookup(key)
}

// Set stores value for key.
func (s *SyncChainedMap[K, V]) Set(key K, value V) {
	m := s.lock()
	defer s.mu.Unlock()
	m.Set(key, value)
}

// Remove deletes key, or returns a *KeyError if it is absent.
func (s *SyncChainedMap[K, V]) Remove(key K) error {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Remove(key)
}

// Process runs fn and applies its result atomically with respect to
// other callers. fn must not call back into s.
func (s *SyncChainedMap[K, V]) Process(
	key K,
	fn func(old V, loaded bool) (V, ComputeOp),
) (V, bool) {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Process(key, fn)
}

// Len returns the number of entries.
func (s *SyncChainedMap[K, V]) Len() int {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Len()
}

// Capacity returns the number of buckets.
func (s *SyncChainedMap[K, V]) Capacity() int {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Capacity()
}

// LoadFactor returns Len/Capacity.
func (s *SyncChainedMap[K, V]) LoadFactor() float64 {
	m := s.lock()
	defer s.mu.Unlock()
	return m.LoadFactor()
}

// Collisions returns the number of buckets holding more than one entry.
func (s *SyncChainedMap[K, V]) Collisions() int {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Collisions()
}

// Clear removes all entries and restores the initial capacity.
func (s *SyncChainedMap[K, V]) Clear() {
	m := s.lock()
	defer s.mu.Unlock()
	m.Clear()
}

// Range holds the lock for the whole traversal.
// yield must not call back into s.
func (s *SyncChainedMap[K, V]) Range(yield func(key K, value V) bool) {
	m := s.lock()
	defer s.mu.Unlock()
	m.Range(yield)
}

// All is the iterator version of Range.
func (s *SyncChainedMap[K, V]) All() func(yield func(K, V) bool) {
	return s.Range
}

// ToMap copies the entries into a new Go map.
func (s *SyncChainedMap[K, V]) ToMap() map[K]V {
	m := s.lock()
	defer s.mu.Unlock()
	return m.ToMap()
}

// Snapshot returns an unguarded clone that can be read without holding
// the lock.
func (s *SyncChainedMap[K, V]) Snapshot() *ChainedMap[K, V] {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Clone()
}

// Stats returns diagnostic statistics. It is an O(N) operation.
func (s *SyncChainedMap[K, V]) Stats() *MapStats {
	m := s.lock()
	defer s.mu.Unlock()
	return m.Stats()
}

// String renders the buckets as ChainedMap.String does.
func (s *SyncChainedMap[K, V]) String() string {
	m := s.lock()
	defer s.mu.Unlock()
	return m.String()
}
