package chainmap

import (
	"fmt"
	"math/bits"
	"reflect"
	"strconv"
)

// Canonicaler is implemented by keys that render their own canonical
// textual form. Equal keys must render equal strings.
type Canonicaler interface {
	CanonicalString() string
}

// HashString hashes the canonical form of a key.
//
// Every rune is XORed into a 32-bit accumulator which is then rotated
// left by one bit. The result is the accumulator reinterpreted as a
// signed 32-bit integer, so it may be negative. The function is stable
// for the lifetime of the process but makes no claims about collision
// resistance.
func HashString(s string) int32 {
	var h uint32
	for _, r := range s {
		h ^= uint32(r)
		h = bits.RotateLeft32(h, 1)
	}
	return int32(h)
}

// Canonical returns the canonical textual form of key.
//
// Resolution order:
//   - Canonicaler
//   - string and the scalar kinds, via strconv (-0 renders as 0)
//   - pointers and channels, as type and address
//   - fmt.Stringer
//   - the type-qualified %#v form
//
// A key whose dynamic value cannot be compared with == (a slice, map or
// func held in an interface) yields ErrUnhashableKey.
func Canonical(key any) (string, error) {
	switch k := key.(type) {
	case nil:
		return "<nil>", nil
	case Canonicaler:
		return k.CanonicalString(), nil
	case string:
		return k, nil
	case bool:
		return strconv.FormatBool(k), nil
	case int:
		return strconv.Itoa(k), nil
	case int8:
		return strconv.FormatInt(int64(k), 10), nil
	case int16:
		return strconv.FormatInt(int64(k), 10), nil
	case int32:
		return strconv.FormatInt(int64(k), 10), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case uint:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(k), 10), nil
	case uint64:
		return strconv.FormatUint(k, 10), nil
	case uintptr:
		return strconv.FormatUint(uint64(k), 10), nil
	case float32:
		return formatFloat(float64(k), 32), nil
	case float64:
		return formatFloat(k, 64), nil
	case complex64:
		return formatFloat(float64(real(k)), 32) + "+" + formatFloat(float64(imag(k)), 32) + "i", nil
	case complex128:
		return formatFloat(real(k), 64) + "+" + formatFloat(imag(k), 64) + "i", nil
	}

	v := reflect.ValueOf(key)
	if !v.Comparable() {
		return "", fmt.Errorf("chainmap: key of type %T: %w", key, ErrUnhashableKey)
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		// Compared by identity, so the address is the key, not the pointee.
		return fmt.Sprintf("%T@%x", key, v.Pointer()), nil
	}
	if s, ok := key.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return fmt.Sprintf("%#v", key), nil
}

// formatFloat folds negative zero into zero because the two compare equal.
func formatFloat(f float64, bitSize int) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// keyStringFunc renders a key of type K into its canonical form.
type keyStringFunc[K comparable] func(key K) (string, error)

func defaultKeyString[K comparable]() keyStringFunc[K] {
	// string keys are their own canonical form
	if _, ok := any(*new(K)).(string); ok {
		return func(key K) (string, error) {
			return any(key).(string), nil
		}
	}
	return func(key K) (string, error) {
		return Canonical(key)
	}
}

// bucketIndex maps a hash onto [0, capacity).
// abs is taken in 64 bits so math.MinInt32 stays positive.
func bucketIndex(hash int32, capacity int) int {
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return int(h % int64(capacity))
}
