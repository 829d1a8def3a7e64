package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/buildcache/dbc/lib/cache"
	"github.com/buildcache/dbc/lib/cache/util"
)

// Exposed for scraping; the per-instance counters in cacheImpl feed Stats()
var (
	diskHits      = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="disk",op="hit"}`)
	diskMisses    = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="disk",op="miss"}`)
	diskPuts      = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="disk",op="put"}`)
	diskEvictions = metrics.GetOrCreateCounter(`dbc_cache_ops_total{engine="disk",op="evict"}`)
)

// cacheImpl is a disk-backed artifact cache. Each artifact is stored as a
// single file named by the SHA-256 of its key, fanned out over 256
// subdirectories. The size index is rebuilt by scanning the directory on
// open, so cached artifacts survive restarts.
type cacheImpl struct {
	dir      string
	index    *xsync.MapOf[string, int64] // file name -> artifact size
	size     atomic.Int64
	maxBytes uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	puts      atomic.Uint64
	evictions atomic.Uint64

	sizes *util.SizeHistogram
}

// NewDiskCache creates (or reopens) a disk cache rooted at dir. maxBytes of
// 0 means unbounded.
func NewDiskCache(dir string, maxBytes uint64) (cache.ICache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &cacheImpl{
		dir:      dir,
		index:    xsync.NewMapOf[string, int64](),
		maxBytes: maxBytes,
		sizes:    util.NewSizeHistogram(),
	}

	if err := c.rebuildIndex(); err != nil {
		return nil, fmt.Errorf("failed to index cache directory: %w", err)
	}
	return c, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see cache/interface.go)
// --------------------------------------------------------------------------

func (c *cacheImpl) Get(key string) ([]byte, bool, error) {
	name := fileName(key)
	if _, loaded := c.index.Load(name); !loaded {
		c.misses.Add(1)
		diskMisses.Inc()
		return nil, false, nil
	}

	value, err := os.ReadFile(c.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			// Index was stale (file removed behind our back)
			c.dropFromIndex(name, false)
			c.misses.Add(1)
			diskMisses.Inc()
			return nil, false, nil
		}
		return nil, false, err
	}

	c.hits.Add(1)
	diskHits.Inc()
	return value, true, nil
}

func (c *cacheImpl) Put(key string, value []byte) error {
	name := fileName(key)
	path := c.path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Write to a temp file first and rename into place so readers never see
	// a partially written artifact
	tmp, err := os.CreateTemp(c.dir, "put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	c.index.Compute(name, func(old int64, loaded bool) (int64, bool) {
		if loaded {
			c.size.Add(-old)
		}
		c.size.Add(int64(len(value)))
		return int64(len(value)), false
	})

	c.puts.Add(1)
	diskPuts.Inc()
	c.sizes.AddSample(len(value))

	c.maybeEvict(name)
	return nil
}

func (c *cacheImpl) Has(key string) (bool, error) {
	_, loaded := c.index.Load(fileName(key))
	return loaded, nil
}

func (c *cacheImpl) Delete(key string) error {
	name := fileName(key)
	if err := os.Remove(c.path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	c.dropFromIndex(name, false)
	return nil
}

func (c *cacheImpl) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	c.index.Clear()
	c.size.Store(0)
	c.sizes.Reset()
	return nil
}

func (c *cacheImpl) Stats() (cache.CacheStats, error) {
	return cache.CacheStats{
		Entries:             uint64(c.index.Size()),
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

// fileName maps an arbitrary cache key onto a fixed-length hex file name
func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// path returns the on-disk location for a file name, fanned out over the
// first two hex digits
func (c *cacheImpl) path(name string) string {
	return filepath.Join(c.dir, name[:2], name)
}

// dropFromIndex removes a file name from the index and adjusts the size
// accounting. When evicted is true the removal counts as an eviction.
func (c *cacheImpl) dropFromIndex(name string, evicted bool) {
	c.index.Compute(name, func(old int64, loaded bool) (int64, bool) {
		if loaded {
			c.size.Add(-old)
			if evicted {
				c.evictions.Add(1)
				diskEvictions.Inc()
			}
		}
		return 0, true
	})
}

// maybeEvict removes artifacts until the cache fits the size cap again. The
// artifact named by keep (the one just inserted) is spared. There is no
// recency tracking, so the eviction order is arbitrary.
func (c *cacheImpl) maybeEvict(keep string) {
	if c.maxBytes == 0 {
		return
	}

	c.index.Range(func(name string, _ int64) bool {
		if uint64(c.size.Load()) <= c.maxBytes {
			return false
		}
		if name == keep {
			return true
		}
		if err := os.Remove(c.path(name)); err != nil && !os.IsNotExist(err) {
			return true
		}
		c.dropFromIndex(name, true)
		return true
	})
}

// rebuildIndex scans the cache directory and restores the size index
func (c *cacheImpl) rebuildIndex() error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		name := d.Name()
		if len(name) != sha256.Size*2 {
			// Leftover temp file from an interrupted Put
			return os.Remove(path)
		}
		c.index.Store(name, info.Size())
		c.size.Add(info.Size())
		c.sizes.AddSample(int(info.Size()))
		return nil
	})
}
