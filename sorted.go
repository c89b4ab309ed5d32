package chainmap

import (
	"cmp"
	"slices"

	"golang.org/x/exp/constraints"
)

// SortedKeys returns the keys of m in ascending order, for output that
// must not depend on the bucket layout.
func SortedKeys[K constraints.Ordered, V any](m *ChainedMap[K, V]) []K {
	keys := make([]K, 0, m.Len())
	m.RangeKeys(func(key K) bool {
		keys = append(keys, key)
		return true
	})
	slices.Sort(keys)
	return keys
}

// SortedEntries returns the entries of m ordered by key.
func SortedEntries[K constraints.Ordered, V any](m *ChainedMap[K, V]) []Entry[K, V] {
	entries := m.Entries()
	slices.SortFunc(entries, func(a, b Entry[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return entries
}
