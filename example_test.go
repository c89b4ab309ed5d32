package chainmap_test

import (
	"errors"
	"fmt"

	"github.com/llxisdsh/chainmap"
)

func Example() {
	m := chainmap.New[string, int](chainmap.WithCapacity(4))
	m.Put("apples", 3)
	m.Put("pears", 5)
	m.Put("plums", 1)
	m.Put("figs", 8) // load factor 0.75 before this insert: the table doubles

	v, ok := m.Get("pears")
	fmt.Println(v, ok)
	fmt.Println(m.Len(), m.Capacity(), m.LoadFactor())

	_, err := m.Lookup("kiwis")
	fmt.Println(errors.Is(err, chainmap.ErrKeyNotFound))
	fmt.Println(chainmap.SortedKeys(m))
	// Output:
	// 5 true
	// 4 8 0.5
	// true
	// [apples figs pears plums]
}

func ExampleChainedMap_Resize() {
	m := chainmap.New[int, string]()
	m.Put(1, "one")
	err := m.Resize(0)
	fmt.Println(err)
	fmt.Println(m.Capacity(), m.Len())
	// Output:
	// chainmap: resize to 0: hash table size must be positive
	// 16 1
}

func ExampleFromMap() {
	m := chainmap.FromMap(map[string]int{"a": 1, "b": 2})
	fmt.Println(m.Capacity(), m.Len())
	fmt.Println(m.ToMap())
	// Output:
	// 2 2
	// map[a:1 b:2]
}

func ExampleHashString() {
	fmt.Println(chainmap.HashString("a"), chainmap.HashString("ab"))
	// Output:
	// 194 320
}
