package cache

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ICache is the generic interface for a build artifact cache. Keys are
// opaque action identifiers computed by the build tool, values are the
// cached artifact bytes.
//
// All implementations must be safe for concurrent use.
type ICache interface {
	// Get returns the artifact stored under key. The boolean return value
	// indicates whether an artifact for the key was found. The returned
	// slice is owned by the caller.
	Get(key string) (value []byte, loaded bool, err error)
	// Put inserts or replaces the artifact stored under key.
	Put(key string, value []byte) (err error)
	// Has returns whether an artifact exists for key without loading it.
	Has(key string) (loaded bool, err error)
	// Delete removes the artifact stored under key. Deleting an absent key
	// is not an error.
	Delete(key string) (err error)
	// Clear removes all artifacts from the cache.
	Clear() (err error)
	// Stats reports usage statistics of the cache.
	Stats() (stats CacheStats, err error)
	// Close releases all resources held by the cache.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Statistics
// --------------------------------------------------------------------------

// CacheStats reports the state and hit behaviour of a cache.
type CacheStats struct {
	Entries   uint64 `json:"entries"`
	SizeBytes uint64 `json:"size_bytes"`
	MaxBytes  uint64 `json:"max_bytes"` // 0 means unbounded

	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Puts      uint64 `json:"puts"`
	Evictions uint64 `json:"evictions"`

	// Estimated artifact size distribution
	AvgArtifactBytes    int `json:"avg_artifact_bytes"`
	MedianArtifactBytes int `json:"median_artifact_bytes"`
}
