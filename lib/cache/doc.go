// Package cache defines the storage interface of the build cache server and
// common statistics types shared by its implementations.
//
// The package focuses on:
//   - A single ICache contract served over RPC and implemented by the
//     storage engines
//   - Usage statistics (entries, size, hit/miss counters, artifact size
//     distribution estimates)
//
// Implementations:
//
//   - memcache: in-memory engine backed by a concurrent map with size-cap
//     eviction. Fast, contents are lost on restart.
//
//   - diskcache: disk-backed engine storing each artifact as a file in a
//     fan-out directory layout. Contents survive restarts.
package cache
