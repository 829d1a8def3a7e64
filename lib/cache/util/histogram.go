// Package util provides statistics utilities for cache implementations.
// This file implements a specialized size histogram for efficient tracking
// of artifact size distributions. The histogram uses exponential bucket
// sizing to cover a wide range of values (bytes to gigabytes) with minimal
// memory overhead, so a cache can report on its contents without scanning
// them.
package util

import (
	"sync"
)

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// SizeHistogram tracks the distribution of artifact sizes.
// It organizes sizes into buckets for efficient memory usage
// while still providing accurate size estimations.
// Supports tracking values from bytes to multiple gigabytes.
type SizeHistogram struct {
	mutex      sync.RWMutex
	boundaries []int   // Bucket boundaries covering byte to GB range
	buckets    []int64 // Count of items in each bucket
	count      int64   // Total number of samples
	sum        int64   // Sum of all sampled sizes
}

// NewSizeHistogram creates a new size histogram with default bucket boundaries
// The boundaries are calibrated to handle sizes from bytes to gigabytes
func NewSizeHistogram() *SizeHistogram {
	// Using exponential bucket sizes to cover a wide range efficiently
	// This covers from small values to over 4GB
	return &SizeHistogram{
		boundaries: []int{
			16, 64, 256, 1024, 4096, // Bytes: 16B to 4KB
			16384, 65536, 262144, 1048576, // KB range: 16KB to 1MB
			4194304, 16777216, 67108864, // MB range: 4MB to 64MB
			268435456, 1073741824, 4294967296, // Above 256MB to 4GB
		},
		buckets: make([]int64, 16), // 16 buckets (15 boundaries + 1 for larger values)
	}
}

// AddSample adds a size sample to the histogram
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) AddSample(size int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	// Find the appropriate bucket for this size
	bucketIndex := 0
	for i, boundary := range h.boundaries {
		if size <= boundary {
			bucketIndex = i
			break
		}
		bucketIndex = len(h.boundaries) // Last bucket for all larger values
	}

	// Update statistics
	h.buckets[bucketIndex]++
	h.count++
	h.sum += int64(size)
}

// Reset drops all recorded samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Reset() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for i := range h.buckets {
		h.buckets[i] = 0
	}
	h.count = 0
	h.sum = 0
}

// GetCount returns the total number of samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) GetCount() int64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.count
}

// AverageSize returns the average size across all samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) AverageSize() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// MedianEstimate estimates the median size based on the histogram
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) MedianEstimate() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 {
		return 0
	}

	// Find the median bucket
	medianCount := h.count / 2
	cumulativeCount := int64(0)

	for i, count := range h.buckets {
		cumulativeCount += count
		if cumulativeCount >= medianCount {
			// Found the median bucket
			if i == 0 {
				return h.boundaries[0] / 2
			} else if i < len(h.boundaries) {
				return (h.boundaries[i-1] + h.boundaries[i]) / 2
			} else {
				// Estimation for the last bucket (2x the last boundary)
				return h.boundaries[len(h.boundaries)-1] * 2
			}
		}
	}

	// Shouldn't happen but as a fallback
	return int(h.sum / h.count)
}
