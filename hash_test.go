package chainmap

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestHashString_KnownValues(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 194},
		{"ab", 320},
		{"key1", 1054},
		{"test_key", 21262},
		{"different_key", 532558},
		{"héllo", 414},
		{"abcdefghijklmnopqrstuvwxyzABCDEFG", 1204268830},
		{strings.Repeat("z", 30), -72},
	}
	for _, c := range cases {
		if got := HashString(c.in); got != c.want {
			t.Errorf("HashString(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestHashString_Consistency(t *testing.T) {
	h1 := HashString("test_key")
	h2 := HashString("test_key")
	if h1 != h2 {
		t.Fatalf("unstable hash %d != %d", h1, h2)
	}
	if h1 == HashString("different_key") {
		t.Fatal("expected different hashes")
	}
}

func TestHashString_RotationWrapsSignBit(t *testing.T) {
	// 0x80 lands on bit 8; 23 more rotations reach bit 31, one more wraps to bit 0
	s := "\u0080" + strings.Repeat("\x00", 23)
	if got := HashString(s); got != math.MinInt32 {
		t.Fatalf("got %d, want MinInt32", got)
	}
	if got := HashString(s + "\x00"); got != 1 {
		t.Fatalf("got %d, want 1 after wraparound", got)
	}
}

func TestBucketIndex_Range(t *testing.T) {
	hashes := []int32{0, 1, -1, 194, -72, math.MaxInt32, math.MinInt32}
	for _, c := range []int{1, 2, 3, 7, 16, 1 << 20} {
		for _, h := range hashes {
			if idx := bucketIndex(h, c); idx < 0 || idx >= c {
				t.Fatalf("bucketIndex(%d, %d) = %d", h, c, idx)
			}
		}
	}
	if got := bucketIndex(math.MinInt32, 10); got != 8 {
		t.Fatalf("MinInt32 index got %d, want 8", got)
	}
	if bucketIndex(-72, 10) != bucketIndex(72, 10) {
		t.Fatal("index must use the absolute hash")
	}
}

type canonicalKey struct{ a, b int }

func (k canonicalKey) CanonicalString() string { return "ck" }

type stringerKey int

func (k stringerKey) String() string { return "sk" }

func TestCanonical(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "<nil>"},
		{"abc", "abc"},
		{true, "true"},
		{-12, "-12"},
		{int8(-3), "-3"},
		{uint64(math.MaxUint64), "18446744073709551615"},
		{45.67, "45.67"},
		{float32(1.5), "1.5"},
		{math.Copysign(0, -1), "0"},
		{1e21, "1e+21"},
		{canonicalKey{1, 2}, "ck"},
		{stringerKey(3), "sk"},
		{[2]int{1, 2}, "[2]int{1, 2}"},
		{structKey{1, 2}, "chainmap.structKey{Service:0x1, Instance:0x2}"},
		{time.Duration(0), "0s"},
	}
	for _, c := range cases {
		got, err := Canonical(c.in)
		if err != nil {
			t.Fatalf("Canonical(%#v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Canonical(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonical_StructurallyDifferent(t *testing.T) {
	a, _ := Canonical(structKey{1, 2})
	b, _ := Canonical(structKey{2, 1})
	if a == b {
		t.Fatalf("different structs rendered equal: %q", a)
	}
}

func TestCanonical_Unhashable(t *testing.T) {
	for _, k := range []any{[]int{1}, map[string]int{}, func() {}, struct{ v any }{[]int{1}}} {
		_, err := Canonical(k)
		if !errors.Is(err, ErrUnhashableKey) {
			t.Errorf("Canonical(%T) got %v", k, err)
		}
	}
}

func TestCanonical_PointerIdentity(t *testing.T) {
	a, b := &structKey{1, 2}, &structKey{1, 2}
	ca, _ := Canonical(a)
	cb, _ := Canonical(b)
	if ca == cb {
		t.Fatalf("distinct pointers rendered equal: %q", ca)
	}
	a.Service = 7
	if got, _ := Canonical(a); got != ca {
		t.Fatalf("pointer key rendering followed its pointee: %q, was %q", got, ca)
	}
	if !strings.HasPrefix(ca, "*chainmap.structKey@") {
		t.Fatalf("got %q", ca)
	}

	ch := make(chan int)
	c1, _ := Canonical(ch)
	c2, _ := Canonical(ch)
	if c1 != c2 || c1 == "" {
		t.Fatalf("channel rendering unstable: %q %q", c1, c2)
	}
}
