//go:build chainmap_opt_cachelinesize_32

package chainmap

// CacheLineSize is fixed by the chainmap_opt_cachelinesize_32 build tag.
const CacheLineSize = 32
