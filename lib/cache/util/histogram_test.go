package util

import (
	"sync"
	"testing"
)

// TestNewSizeHistogram tests the creation of a new histogram
func TestNewSizeHistogram(t *testing.T) {
	h := NewSizeHistogram()

	if h == nil {
		t.Fatal("NewSizeHistogram() returned nil")
	}

	if h.GetCount() != 0 {
		t.Errorf("New histogram should be empty, but has %d samples", h.GetCount())
	}

	if h.AverageSize() != 0 {
		t.Errorf("Empty histogram average should be 0, got %d", h.AverageSize())
	}

	if h.MedianEstimate() != 0 {
		t.Errorf("Empty histogram median should be 0, got %d", h.MedianEstimate())
	}
}

// TestAddSample tests sample accounting
func TestAddSample(t *testing.T) {
	h := NewSizeHistogram()

	h.AddSample(10)
	h.AddSample(20)
	h.AddSample(30)

	if h.GetCount() != 3 {
		t.Errorf("Histogram should have 3 samples, but has %d", h.GetCount())
	}

	if avg := h.AverageSize(); avg != 20 {
		t.Errorf("Expected average 20, got %d", avg)
	}
}

// TestMedianEstimate tests the bucket based median estimation
func TestMedianEstimate(t *testing.T) {
	h := NewSizeHistogram()

	// All samples land in the first bucket (<= 16)
	for i := 0; i < 10; i++ {
		h.AddSample(10)
	}

	if m := h.MedianEstimate(); m != 8 {
		t.Errorf("Expected median estimate 8 for first bucket, got %d", m)
	}

	// Samples beyond the last boundary land in the overflow bucket
	h2 := NewSizeHistogram()
	for i := 0; i < 10; i++ {
		h2.AddSample(5 << 30) // 5 GB
	}

	if m := h2.MedianEstimate(); m <= 4<<30 {
		t.Errorf("Expected overflow median estimate above 4GB, got %d", m)
	}
}

// TestReset tests dropping all samples
func TestReset(t *testing.T) {
	h := NewSizeHistogram()

	h.AddSample(100)
	h.AddSample(200)
	h.Reset()

	if h.GetCount() != 0 {
		t.Errorf("Histogram should be empty after reset, but has %d samples", h.GetCount())
	}

	if h.AverageSize() != 0 {
		t.Errorf("Average should be 0 after reset, got %d", h.AverageSize())
	}
}

// TestConcurrentSampling tests that concurrent writers do not lose samples
func TestConcurrentSampling(t *testing.T) {
	h := NewSizeHistogram()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.AddSample(1024)
			}
		}()
	}
	wg.Wait()

	if h.GetCount() != 1000 {
		t.Errorf("Expected 1000 samples, got %d", h.GetCount())
	}
}
