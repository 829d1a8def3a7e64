package memcache

import (
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/buildcache/dbc/lib/cache"
	"github.com/buildcache/dbc/lib/cache/util"
)

// Exposed for scraping; the per-instance counters in cacheImpl feed Stats()
var (
	memHits      = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="mem",op="hit"}`)
	memMisses    = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="mem",op="miss"}`)
	memPuts      = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="mem",op="put"}`)
	memEvictions = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="mem",op="evict"}`)
)

// cacheImpl is an in-memory artifact cache. Contents are lost when the
// process exits. Eviction kicks in once the configured size cap is
// exceeded; there is no recency tracking, so the eviction order is
// arbitrary.
type cacheImpl struct {
	data     *xsync.MapOf[string, []byte]
	size     atomic.Int64
	maxBytes uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	puts      atomic.Uint64
	evictions atomic.Uint64

	sizes *util.SizeHistogram
}

// NewMemoryCache creates a new in-memory cache. maxBytes of 0 means
// unbounded.
func NewMemoryCache(maxBytes uint64) cache.ICache {
	return &cacheImpl{
		data:     xsync.NewMapOf[string, []byte](),
		maxBytes: maxBytes,
		sizes:    util.NewSizeHistogram(),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see cache/interface.go)
// --------------------------------------------------------------------------

func (c *cacheImpl) Get(key string) ([]byte, bool, error) {
	value, loaded := c.data.Load(key)
	if !loaded {
		c.misses.Add(1)
		memMisses.Inc()
		return nil, false, nil
	}
	c.hits.Add(1)
	memHits.Inc()
	// Hand out a copy, the stored slice must stay immutable
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (c *cacheImpl) Put(key string, value []byte) error {
	// Keep an own copy so later caller-side mutation cannot corrupt the cache
	stored := make([]byte, len(value))
	copy(stored, value)

	c.data.Compute(key, func(old []byte, loaded bool) ([]byte, bool) {
		if loaded {
			c.size.Add(-int64(len(old)))
		}
		c.size.Add(int64(len(stored)))
		return stored, false
	})

	c.puts.Add(1)
	memPuts.Inc()
	c.sizes.AddSample(len(stored))

	c.maybeEvict(key)
	return nil
}

func (c *cacheImpl) Has(key string) (bool, error) {
	_, loaded := c.data.Load(key)
	return loaded, nil
}

func (c *cacheImpl) Delete(key string) error {
	c.data.Compute(key, func(old []byte, loaded bool) ([]byte, bool) {
		if loaded {
			c.size.Add(-int64(len(old)))
		}
		return nil, true
	})
	return nil
}

func (c *cacheImpl) Clear() error {
	c.data.Clear()
	c.size.Store(0)
	c.sizes.Reset()
	return nil
}

func (c *cacheImpl) Stats() (cache.CacheStats, error) {
	return cache.CacheStats{
		Entries:             uint64(c.data.Size()),
		SizeBytes:           uint64(c.size.Load()),
		MaxBytes:            c.maxBytes,
		Hits:                c.hits.Load(),
		Misses:              c.misses.Load(),
		Puts:                c.puts.Load(),
		Evictions:           c.evictions.Load(),
		AvgArtifactBytes:    c.sizes.AverageSize(),
		MedianArtifactBytes: c.sizes.MedianEstimate(),
	}, nil
}

func (c *cacheImpl) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// maybeEvict removes entries until the cache fits the size cap again. The
// entry named by keep (the one just inserted) is spared.
func (c *cacheImpl) maybeEvict(keep string) {
	if c.maxBytes == 0 {
		return
	}

	c.data.Range(func(key string, _ []byte) bool {
		if uint64(c.size.Load()) <= c.maxBytes {
			return false
		}
		if key == keep {
			return true
		}
		c.data.Compute(key, func(old []byte, loaded bool) ([]byte, bool) {
			if loaded {
				c.size.Add(-int64(len(old)))
				c.evictions.Add(1)
				memEvictions.Inc()
			}
			return nil, true
		})
		return true
	})
}
