package chainmap

import (
	"fmt"
	"math"
	"strings"
)

// Stats returns statistics for the ChainedMap. It's an O(N) operation,
// so it should be used only for diagnostics or debugging purposes.
func (m *ChainedMap[K, V]) Stats() *MapStats {
	stats := &MapStats{
		Capacity:     len(m.table),
		Counter:      m.count,
		MinEntries:   math.MaxInt,
		TotalGrowths: m.totalGrowths,
		TotalShrinks: m.totalShrinks,
	}
	for _, b := range m.table {
		n := len(b)
		stats.Size += n
		switch {
		case n == 0:
			stats.EmptyBuckets++
		case n > 1:
			stats.Collisions++
		}
		stats.MinEntries = min(stats.MinEntries, n)
		stats.MaxEntries = max(stats.MaxEntries, n)
	}
	if stats.Capacity == 0 {
		stats.MinEntries = 0
	} else {
		stats.LoadFactor = float64(stats.Size) / float64(stats.Capacity)
	}
	return stats
}

// MapStats is ChainedMap statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Capacity is the number of buckets.
	Capacity int
	// Size is the number of entries found by walking every bucket.
	Size int
	// Counter is the number of entries according to the internal
	// counter. It always equals Size unless the map is corrupted.
	Counter int
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// Collisions is the number of buckets holding more than one entry.
	Collisions int
	// MinEntries is the length of the shortest chain.
	MinEntries int
	// MaxEntries is the length of the longest chain.
	MaxEntries int
	// LoadFactor is Size/Capacity.
	LoadFactor float64
	// TotalGrowths is the number of times the table grew automatically.
	TotalGrowths uint32
	// TotalShrinks is the number of times the table shrank automatically.
	TotalShrinks uint32
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Capacity:     %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:      %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("Collisions:   %d\n", s.Collisions))
	sb.WriteString(fmt.Sprintf("MinEntries:   %d\n", s.MinEntries))
	sb.WriteString(fmt.Sprintf("MaxEntries:   %d\n", s.MaxEntries))
	sb.WriteString(fmt.Sprintf("LoadFactor:   %.2f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("TotalShrinks: %d\n", s.TotalShrinks))
	sb.WriteString("}\n")
	return sb.String()
}
