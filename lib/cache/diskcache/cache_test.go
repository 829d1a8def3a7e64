package diskcache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCacheBasicOps(t *testing.T) {
	c, err := NewDiskCache(t.TempDir(), 0)
	require.NoError(t, err)
	defer c.Close()

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

func TestDiskCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := NewDiskCache(dir, 0)
	require.NoError(t, err)
	require.NoError(t, c.Put("persisted", []byte("artifact")))
	require.NoError(t, c.Close())

	// a new instance over the same directory rebuilds its index by scanning
	reopened, err := NewDiskCache(dir, 0)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("persisted")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("artifact"), value)

	stats, err := reopened.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Entries)
	assert.Equal(t, uint64(len("artifact")), stats.SizeBytes)
}

func TestDiskCacheReopenRemovesTempFiles(t *testing.T) {
	dir := t.TempDir()

	// simulate an interrupted Put
	require.NoError(t, os.WriteFile(filepath.Join(dir, "put-1234"), []byte("partial"), 0o644))

	c, err := NewDiskCache(dir, 0)
	require.NoError(t, err)
	defer c.Close()

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.NoFileExists(t, filepath.Join(dir, "put-1234"))
}

func TestDiskCacheOverwriteAccounting(t *testing.T) {
	c, err := NewDiskCache(t.TempDir(), 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("k", make([]byte, 100)))
	require.NoError(t, c.Put("k", make([]byte, 10)))

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Entries)
	assert.Equal(t, uint64(10), stats.SizeBytes)
}

func TestDiskCacheEviction(t *testing.T) {
	c, err := NewDiskCache(t.TempDir(), 100)
	require.NoError(t, err)
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

func TestDiskCacheClear(t *testing.T) {
	dir := t.TempDir()
	c, err := NewDiskCache(dir, 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("a", []byte("1")))
	require.NoError(t, c.Put("b", []byte("2")))
	require.NoError(t, c.Clear())

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.Zero(t, stats.SizeBytes)

	// the directory is still usable after a clear
	require.NoError(t, c.Put("c", []byte("3")))
	ok, err := c.Has("c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDiskCacheStaleIndexEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewDiskCache(dir, 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("k", []byte("artifact")))

	// remove the backing file behind the cache's back
	name := fileName("k")
	require.NoError(t, os.Remove(filepath.Join(dir, name[:2], name)))

	// the lookup degrades to a miss and the index self-heals
	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}
