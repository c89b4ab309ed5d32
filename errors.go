package chainmap

import "errors"

var (
	// ErrInvalidCapacity is returned when a resize targets a non-positive capacity.
	ErrInvalidCapacity = errors.New("hash table size must be positive")
	// ErrKeyNotFound is wrapped by *KeyError.
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnhashableKey reports a key without a canonical textual form.
	ErrUnhashableKey = errors.New("unhashable key")
	// ErrConcurrentModification is the panic value raised when the map is
	// structurally modified while it is being iterated.
	ErrConcurrentModification = errors.New("map modified during iteration")
)

// KeyError is returned by Load and Remove for absent keys.
type KeyError struct {
	// Key is the canonical form of the missing key.
	Key string
}

func (e *KeyError) Error() string {
	return "chainmap: key '" + e.Key + "' not found"
}

func (e *KeyError) Unwrap() error {
	return ErrKeyNotFound
}
