package memcache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheBasicOps(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	// absent key
	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("a", []byte("value-a")))
	value, ok, err := c.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value-a"), value)

	ok, err = c.Has("a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete("a"))
	ok, err = c.Has("a")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent key is not an error
	require.NoError(t, c.Delete("a"))
}

func TestMemoryCachePutCopies(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	value := []byte("original")
	require.NoError(t, c.Put("k", value))

	// mutating the caller's slice must not affect the stored artifact
	value[0] = 'X'
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("original"), got)
}

func TestMemoryCacheGetCopies(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	require.NoError(t, c.Put("k", []byte("original")))

	// mutating a returned value must not affect the stored artifact
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	got[0] = 'X'

	again, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryCacheOverwriteAccounting(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	require.NoError(t, c.Put("k", make([]byte, 100)))
	require.NoError(t, c.Put("k", make([]byte, 10)))

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Entries)
	assert.Equal(t, uint64(10), stats.SizeBytes)
}

func TestMemoryCacheEviction(t *testing.T) {
	// cap fits two 40 byte artifacts but not three
	c := NewMemoryCache(100)
	defer c.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Put(fmt.Sprintf("key-%d", i), make([]byte, 40)))
	}

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.LessOrEqual(t, stats.SizeBytes, uint64(100))
	assert.NotZero(t, stats.Evictions)

	// the artifact inserted last is never its own eviction victim
	ok, err := c.Has("key-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	require.NoError(t, c.Put("a", []byte("1")))
	require.NoError(t, c.Put("b", []byte("2")))
	require.NoError(t, c.Clear())

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.Zero(t, stats.SizeBytes)
}

func TestMemoryCacheStats(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	require.NoError(t, c.Put("a", make([]byte, 10)))
	require.NoError(t, c.Put("b", make([]byte, 30)))

	// one hit, one miss
	_, _, err := c.Get("a")
	require.NoError(t, err)
	_, _, err = c.Get("missing")
	require.NoError(t, err)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Entries)
	assert.Equal(t, uint64(40), stats.SizeBytes)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(2), stats.Puts)
	assert.Equal(t, 20, stats.AvgArtifactBytes)
}
