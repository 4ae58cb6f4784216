// Package stats collects run-level timing statistics.
package stats

import (
	"math"
	"sync"
)

// StreamingStats accumulates per-frame durations with O(1) memory,
// using a mutex for thread safety since every worker reports into the
// same instance.
type StreamingStats struct {
	mu         sync.RWMutex
	count      int64
	sum        float64
	sumSquares float64
	min        float64
	max        float64
}

// NewStreamingStats creates an empty accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

// Update adds a new value to the statistics
func (s *StreamingStats) Update(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.sum += value
	s.sumSquares += value * value

	if value < s.min {
		s.min = value
	}
	if value > s.max {
		s.max = value
	}
}

// Count returns the number of values processed
func (s *StreamingStats) Count() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Mean returns the arithmetic mean of all values
func (s *StreamingStats) Mean() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Min returns the minimum value seen, or 0 before any update.
func (s *StreamingStats) Min() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if math.IsInf(s.min, 1) {
		return 0
	}
	return s.min
}

// Max returns the maximum value seen, or 0 before any update.
func (s *StreamingStats) Max() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if math.IsInf(s.max, -1) {
		return 0
	}
	return s.max
}

// StdDev returns the sample standard deviation.
func (s *StreamingStats) StdDev() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count < 2 {
		return 0
	}
	mean := s.sum / float64(s.count)
	variance := (s.sumSquares - float64(s.count)*mean*mean) / float64(s.count-1)
	if variance < 0 {
		return 0
	}
	return math.Sqrt(variance)
}
