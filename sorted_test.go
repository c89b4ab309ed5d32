package chainmap

import (
	"reflect"
	"testing"
)

func TestSortedKeys(t *testing.T) {
	m := New[string, int](WithCapacity(3))
	for i, k := range []string{"delta", "alpha", "charlie", "bravo"} {
		m.Put(k, i)
	}
	want := []string{"alpha", "bravo", "charlie", "delta"}
	if got := SortedKeys(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("SortedKeys got %v", got)
	}
}

func TestSortedEntries(t *testing.T) {
	m := New[int, string]()
	for _, k := range []int{5, -1, 3, 0} {
		m.Put(k, string(rune('a'+k+1)))
	}
	entries := SortedEntries(m)
	keys := make([]int, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
		if v, _ := m.Get(e.Key); v != e.Value {
			t.Fatalf("entry %d value %q, map holds %q", e.Key, e.Value, v)
		}
	}
	if !reflect.DeepEqual(keys, []int{-1, 0, 3, 5}) {
		t.Fatalf("SortedEntries keys %v", keys)
	}
}

func TestSortedKeys_Empty(t *testing.T) {
	var m ChainedMap[float64, int]
	if got := SortedKeys(&m); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}
