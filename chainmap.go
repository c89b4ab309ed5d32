package chainmap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
)

// ChainedMap is a resizable hash map that resolves collisions by separate
// chaining.
//
// Keys are hashed by HashString over their canonical textual form (see
// Canonical and WithKeyString) and compared with ==. The table doubles
// before an insertion when the load factor exceeds 0.7 and halves after
// a deletion that drops it below 0.2, but never shrinks automatically
// at or below 16 buckets.
//
// ChainedMap is not safe for concurrent use; see SyncChainedMap.
// The zero value is ready to use with the default configuration.
type ChainedMap[K comparable, V any] struct {
	table     []bucket[K, V]
	count     int
	mods      uint64 // bumped on structural changes, guards iterators
	initCap   int    // WithCapacity, restored by Clear
	keyString keyStringFunc[K]
	logger    *slog.Logger

	totalGrowths uint32
	totalShrinks uint32
}

// Entry is a key-value pair stored in a ChainedMap.
type Entry[K comparable, V any] struct {
	hash  int32
	Key   K
	Value V
}

// bucket is a chain of entries sharing one index; order is incidental.
type bucket[K comparable, V any] []Entry[K, V]

// New creates a ChainedMap.
//
// Parameters:
//   - WithCapacity option for the initial number of buckets (default 16,
//     or CHAINMAP_CAPACITY)
//   - WithKeyString option for a custom canonical key renderer
//   - WithLogger option to log resizes
func New[K comparable, V any](options ...func(*MapConfig)) *ChainedMap[K, V] {
	m := &ChainedMap[K, V]{}
	m.Init(options...)
	return m
}

// FromMap creates a ChainedMap holding every pair of data.
// Unless WithCapacity is given, the capacity equals len(data); an empty
// data falls back to the default capacity.
func FromMap[K comparable, V any](data map[K]V, options ...func(*MapConfig)) *ChainedMap[K, V] {
	m := New[K, V](append([]func(*MapConfig){WithCapacity(len(data))}, options...)...)
	m.LoadMap(data)
	return m
}

// Init initializes the map, discarding any content.
//
// Notes:
//   - If this function is not called, the map initializes itself with the
//     default configuration on first use.
func (m *ChainedMap[K, V]) Init(options ...func(*MapConfig)) {
	cfg := MapConfig{capacity: defaultCapacity}
	for _, opt := range options {
		opt(&cfg)
	}
	m.init(&cfg)
}

func (m *ChainedMap[K, V]) init(cfg *MapConfig) {
	m.keyString = defaultKeyString[K]()
	if cfg.keyString != nil {
		fn, ok := cfg.keyString.(func(key K) string)
		if !ok {
			panic(fmt.Sprintf("chainmap: WithKeyString renderer %T does not match key type", cfg.keyString))
		}
		m.keyString = func(key K) (string, error) {
			return fn(key), nil
		}
	}
	m.logger = cfg.logger
	if m.logger == nil && traceResizes {
		m.logger = slog.Default()
	}
	m.initCap = cfg.capacity
	m.table = make([]bucket[K, V], m.initCap)
	m.count = 0
	m.mods++
}

//go:noinline
func (m *ChainedMap[K, V]) initSlow() {
	if m.table == nil {
		m.Init()
	}
}

// hashKey renders and hashes key. It panics with an error wrapping
// ErrUnhashableKey before anything is modified.
func (m *ChainedMap[K, V]) hashKey(key K) int32 {
	s, err := m.keyString(key)
	if err != nil {
		panic(err)
	}
	return HashString(s)
}

// BucketIndex returns the index of the bucket that holds, or would hold,
// key under the current capacity.
func (m *ChainedMap[K, V]) BucketIndex(key K) int {
	m.initSlow()
	return bucketIndex(m.hashKey(key), len(m.table))
}

// Get returns the value stored for key. Absence is reported by ok and is
// not an error. Get never resizes the map.
func (m *ChainedMap[K, V]) Get(key K) (value V, ok bool) {
	m.initSlow()
	if e := m.findEntry(m.hashKey(key), key); e != nil {
		return e.Value, true
	}
	return value, false
}

func (m *ChainedMap[K, V]) findEntry(hash int32, key K) *Entry[K, V] {
	b := m.table[bucketIndex(hash, len(m.table))]
	for i := range b {
		if b[i].hash == hash && b[i].Key == key {
			return &b[i]
		}
	}
	return nil
}

// Put inserts or updates key and returns the index of the bucket written.
//
// If the load factor exceeds 0.7 before the insertion, the table doubles
// first, so the returned index refers to the resized table. Updating an
// existing key replaces its value in place.
func (m *ChainedMap[K, V]) Put(key K, value V) int {
	m.initSlow()
	hash := m.hashKey(key)
	return m.put(Entry[K, V]{hash: hash, Key: key, Value: value})
}

// put is the insertion path shared by Put and resize.
func (m *ChainedMap[K, V]) put(e Entry[K, V]) int {
	if m.needGrow() {
		m.resize(len(m.table)<<1, mapGrowHint)
	}
	idx := bucketIndex(e.hash, len(m.table))
	b := m.table[idx]
	for i := range b {
		if b[i].hash == e.hash && b[i].Key == e.Key {
			b[i].Value = e.Value
			return idx
		}
	}
	m.table[idx] = append(b, e)
	m.count++
	m.mods++
	return idx
}

// Delete removes key and reports whether it was present.
//
// After a successful removal the table halves when the load factor drops
// below 0.2 and the capacity is above 16.
func (m *ChainedMap[K, V]) Delete(key K) bool {
	m.initSlow()
	hash := m.hashKey(key)
	idx := bucketIndex(hash, len(m.table))
	b := m.table[idx]
	for i := range b {
		if b[i].hash == hash && b[i].Key == key {
			m.table[idx] = slices.Delete(b, i, i+1)
			m.count--
			m.mods++
			if m.needShrink() {
				m.resize(len(m.table)>>1, mapShrinkHint)
			}
			return true
		}
	}
	return false
}

// Resize rehashes every entry into a new table of newCapacity buckets.
//
// A non-positive newCapacity returns an error wrapping ErrInvalidCapacity
// and leaves the map untouched. Entries are reinserted through the same
// path as Put, so a target too small for the current size grows again
// while rehashing.
func (m *ChainedMap[K, V]) Resize(newCapacity int) error {
	if newCapacity <= 0 {
		return fmt.Errorf("chainmap: resize to %d: %w", newCapacity, ErrInvalidCapacity)
	}
	m.initSlow()
	m.resize(newCapacity, mapExplicitHint)
	return nil
}

type mapResizeHint int

const (
	mapGrowHint mapResizeHint = iota
	mapShrinkHint
	mapExplicitHint
)

func (h mapResizeHint) String() string {
	switch h {
	case mapGrowHint:
		return "grow"
	case mapShrinkHint:
		return "shrink"
	default:
		return "explicit"
	}
}

// resize swaps in a fresh table; the old one is dropped once every entry
// has been reinserted.
func (m *ChainedMap[K, V]) resize(newCapacity int, hint mapResizeHint) {
	old := m.table
	m.table = make([]bucket[K, V], newCapacity)
	m.count = 0
	m.mods++
	for _, b := range old {
		for _, e := range b {
			m.put(e)
		}
	}

	switch hint {
	case mapGrowHint:
		m.totalGrowths++
	case mapShrinkHint:
		m.totalShrinks++
	}
	if m.logger != nil {
		m.logger.Debug("chainmap resized",
			slog.String("reason", hint.String()),
			slog.Int("from", len(old)),
			slog.Int("to", len(m.table)),
			slog.Int("size", m.count))
	}
}

func (m *ChainedMap[K, V]) needGrow() bool {
	return m.LoadFactor() > mapGrowLoadFactor
}

func (m *ChainedMap[K, V]) needShrink() bool {
	return m.LoadFactor() < mapShrinkLoadFactor && len(m.table) > mapShrinkFloor
}

// Has reports whether key is present.
func (m *ChainedMap[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Lookup is the subscript form of Get: an absent key yields a *KeyError
// wrapping ErrKeyNotFound. Use Get for the comma-ok form.
func (m *ChainedMap[K, V]) Lookup(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, m.keyError(key)
	}
	return v, nil
}

// Set is the subscript form of Put. It never fails on absence.
func (m *ChainedMap[K, V]) Set(key K, value V) {
	m.Put(key, value)
}

// Remove is the subscript form of Delete: an absent key yields a
// *KeyError wrapping ErrKeyNotFound.
func (m *ChainedMap[K, V]) Remove(key K) error {
	if !m.Delete(key) {
		return m.keyError(key)
	}
	return nil
}

func (m *ChainedMap[K, V]) keyError(key K) error {
	s, _ := m.keyString(key)
	return &KeyError{Key: s}
}

// ComputeOp tells Process what to do with the entry.
type ComputeOp int

const (
	// CancelOp leaves the map unchanged.
	CancelOp ComputeOp = iota
	// UpdateOp stores the returned value.
	UpdateOp
	// DeleteOp removes the entry if present.
	DeleteOp
)

// Process reads the current value of key, hands it to fn and applies the
// returned operation. It returns the value held for key afterwards and
// whether the key is present.
func (m *ChainedMap[K, V]) Process(
	key K,
	fn func(old V, loaded bool) (V, ComputeOp),
) (value V, ok bool) {
	old, loaded := m.Get(key)
	newV, op := fn(old, loaded)
	switch op {
	case UpdateOp:
		m.Put(key, newV)
		return newV, true
	case DeleteOp:
		if loaded {
			m.Delete(key)
		}
		return value, false
	default:
		return old, loaded
	}
}

// Len returns the number of stored entries.
func (m *ChainedMap[K, V]) Len() int {
	return m.count
}

// Size is an alias of Len.
func (m *ChainedMap[K, V]) Size() int {
	return m.count
}

// IsZero reports whether the map is empty.
func (m *ChainedMap[K, V]) IsZero() bool {
	return m.count == 0
}

// Capacity returns the current number of buckets.
func (m *ChainedMap[K, V]) Capacity() int {
	m.initSlow()
	return len(m.table)
}

// LoadFactor returns Len()/Capacity(). The grow and shrink thresholds are
// compared against this unrounded value.
func (m *ChainedMap[K, V]) LoadFactor() float64 {
	m.initSlow()
	return float64(m.count) / float64(len(m.table))
}

// RoundedLoadFactor returns the load factor rounded to two decimals for
// display.
func (m *ChainedMap[K, V]) RoundedLoadFactor() float64 {
	return math.Round(m.LoadFactor()*100) / 100
}

// Collisions returns the number of buckets holding more than one entry.
// It is a diagnostic only.
func (m *ChainedMap[K, V]) Collisions() int {
	n := 0
	for _, b := range m.table {
		if len(b) > 1 {
			n++
		}
	}
	return n
}

// Clear removes all entries and restores the initial capacity.
func (m *ChainedMap[K, V]) Clear() {
	if m.table == nil {
		return
	}
	m.table = make([]bucket[K, V], m.initCap)
	m.count = 0
	m.mods++
}

// Clone returns an independent copy with the same capacity, bucket
// layout and configuration.
func (m *ChainedMap[K, V]) Clone() *ChainedMap[K, V] {
	m.initSlow()
	c := &ChainedMap[K, V]{
		table:        make([]bucket[K, V], len(m.table)),
		count:        m.count,
		initCap:      m.initCap,
		keyString:    m.keyString,
		logger:       m.logger,
		totalGrowths: m.totalGrowths,
		totalShrinks: m.totalShrinks,
	}
	for i, b := range m.table {
		if len(b) != 0 {
			c.table[i] = slices.Clone(b)
		}
	}
	return c
}

// RangeEntry iterates over all entries in bucket order, then in chain
// order. The order is unrelated to insertion order and changes on resize.
//
// Notes:
//   - The traversal reads the live table; no snapshot is taken.
//   - Inserting a new key, deleting, resizing or clearing from within
//     yield panics with an error wrapping ErrConcurrentModification.
//   - Overwriting the value of an existing key does not by itself count
//     as a modification, but Put checks the grow threshold before it
//     looks for the key: above a load factor of 0.7 an overwrite resizes
//     the table and the traversal panics.
func (m *ChainedMap[K, V]) RangeEntry(yield func(e Entry[K, V]) bool) {
	table, mods := m.table, m.mods
	for i := range table {
		b := table[i]
		for j := range b {
			if !yield(b[j]) {
				return
			}
			if m.mods != mods {
				panic(fmt.Errorf("chainmap: %w", ErrConcurrentModification))
			}
		}
	}
}

// Range calls yield for every key-value pair until it returns false.
func (m *ChainedMap[K, V]) Range(yield func(key K, value V) bool) {
	m.RangeEntry(func(e Entry[K, V]) bool {
		return yield(e.Key, e.Value)
	})
}

// RangeKeys to iterate over all keys
func (m *ChainedMap[K, V]) RangeKeys(yield func(key K) bool) {
	m.RangeEntry(func(e Entry[K, V]) bool {
		return yield(e.Key)
	})
}

// RangeValues to iterate over all values
func (m *ChainedMap[K, V]) RangeValues(yield func(value V) bool) {
	m.RangeEntry(func(e Entry[K, V]) bool {
		return yield(e.Value)
	})
}

// All is the iterator version of Range. Every call starts a fresh
// traversal of the current content.
func (m *ChainedMap[K, V]) All() func(yield func(K, V) bool) {
	return m.Range
}

// Keys is the iterator version for iterating over all keys.
func (m *ChainedMap[K, V]) Keys() func(yield func(K) bool) {
	return m.RangeKeys
}

// Values is the iterator version for iterating over all values.
func (m *ChainedMap[K, V]) Values() func(yield func(V) bool) {
	return m.RangeValues
}

// Entries returns a copy of all entries in iteration order.
func (m *ChainedMap[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, m.count)
	m.RangeEntry(func(e Entry[K, V]) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// ToMap collect all entries and return a map[K]V
func (m *ChainedMap[K, V]) ToMap() map[K]V {
	a := make(map[K]V, m.count)
	m.RangeEntry(func(e Entry[K, V]) bool {
		a[e.Key] = e.Value
		return true
	})
	return a
}

// ToMapWithLimit collect up to limit entries into a map[K]V, limit < 0 is no limit
func (m *ChainedMap[K, V]) ToMapWithLimit(limit int) map[K]V {
	if limit == 0 {
		return map[K]V{}
	}
	if limit < 0 {
		limit = math.MaxInt
	}
	a := make(map[K]V, min(m.count, limit))
	m.RangeEntry(func(e Entry[K, V]) bool {
		a[e.Key] = e.Value
		limit--
		return limit > 0
	})
	return a
}

// LoadMap puts every pair of source into the map.
func (m *ChainedMap[K, V]) LoadMap(source map[K]V) {
	for k, v := range source {
		m.Put(k, v)
	}
}

// String renders the bucket table, one bracketed chain per bucket.
func (m *ChainedMap[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("ChainedMap[")
	for i, b := range m.table {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('[')
		for j, e := range b {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%v:%v", e.Key, e.Value)
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the default JSON serialization and deserialization functions.
// If not set, the standard library is used by default.
func SetDefaultJSONMarshal(marshal func(v any) ([]byte, error), unmarshal func(data []byte, v any) error) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

// MarshalJSON JSON serialization
func (m *ChainedMap[K, V]) MarshalJSON() ([]byte, error) {
	if jsonMarshal != nil {
		return jsonMarshal(m.ToMap())
	}
	return json.Marshal(m.ToMap())
}

// UnmarshalJSON JSON deserialization. Decoded pairs are added to the
// existing content.
func (m *ChainedMap[K, V]) UnmarshalJSON(data []byte) error {
	var a map[K]V
	if jsonUnmarshal != nil {
		if err := jsonUnmarshal(data, &a); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
	}
	m.LoadMap(a)
	return nil
}
