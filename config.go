package chainmap

import (
	"log/slog"

	"github.com/xyproto/env/v2"
)

const (
	// mapGrowLoadFactor is the load factor above which Put doubles the
	// table before inserting.
	mapGrowLoadFactor = 0.7
	// mapShrinkLoadFactor is the load factor below which a successful
	// Delete halves the table.
	mapShrinkLoadFactor = 0.2
	// mapShrinkFloor is the capacity at or below which the table never
	// shrinks automatically.
	mapShrinkFloor = 16
	// defaultMapCapacity is used when neither WithCapacity nor
	// CHAINMAP_CAPACITY provide a positive value.
	defaultMapCapacity = 16
)

// Environment variables read once at package initialization.
const (
	envCapacity = "CHAINMAP_CAPACITY"
	envTrace    = "CHAINMAP_TRACE"
)

var defaultCapacity, traceResizes = defaultsFromEnv()

// defaultsFromEnv resolves the process-wide defaults.
// A non-positive CHAINMAP_CAPACITY falls back to defaultMapCapacity.
func defaultsFromEnv() (capacity int, trace bool) {
	capacity = env.Int(envCapacity, defaultMapCapacity)
	if capacity <= 0 {
		capacity = defaultMapCapacity
	}
	return capacity, env.Bool(envTrace)
}

// MapConfig defines configurable ChainedMap options.
type MapConfig struct {
	capacity  int
	keyString any // func(K) string, checked against K at Init
	logger    *slog.Logger
}

// WithCapacity sets the initial number of buckets. Clear also resets
// the map to this capacity. If capacity is zero or negative, the value
// is ignored.
func WithCapacity(capacity int) func(*MapConfig) {
	return func(c *MapConfig) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithKeyString replaces the canonical key renderer fed to HashString.
// Equal keys must render equal strings. K must match the key type of
// the map the option is applied to, otherwise Init panics.
//
// Usage:
//
//	m := New[point, string](WithKeyString(func(p point) string {
//		return fmt.Sprintf("%d,%d", p.x, p.y)
//	}))
func WithKeyString[K comparable](fn func(key K) string) func(*MapConfig) {
	return func(c *MapConfig) {
		c.keyString = fn
	}
}

// WithLogger logs every resize at debug level.
// Without it maps stay silent unless CHAINMAP_TRACE is set, in which
// case slog.Default() is used.
func WithLogger(logger *slog.Logger) func(*MapConfig) {
	return func(c *MapConfig) {
		c.logger = logger
	}
}
