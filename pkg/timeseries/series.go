// Package timeseries provides the shared time-series data model used by the
// windowed-aggregation, storm-detection, and decay-convolution packages.
// A series is a pair of parallel slices: strictly increasing timestamps and
// their values. Validation errors are sentinel errors and can be tested with
// errors.Is.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrEmptySeries indicates a series with no samples.
	ErrEmptySeries = errors.New("timeseries: empty series")

	// ErrLengthMismatch indicates parallel slices of different lengths.
	ErrLengthMismatch = errors.New("timeseries: times and values have different lengths")

	// ErrNonIncreasing indicates timestamps that are not strictly increasing.
	// Strict increase is what guarantees the causal aggregations downstream
	// never see a non-negative exponent argument.
	ErrNonIncreasing = errors.New("timeseries: timestamps must be strictly increasing")
)

// Series holds an ordered set of (timestamp, value) samples.
type Series struct {
	Times  []time.Time
	Values []float64
}

// New builds a Series and validates it.
func New(times []time.Time, values []float64) (Series, error) {
	s := Series{Times: times, Values: values}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Times) }

// Validate checks the structural invariants: equal lengths, at least one
// sample, strictly increasing timestamps.
func (s Series) Validate() error {
	if len(s.Times) != len(s.Values) {
		return fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(s.Times), len(s.Values))
	}
	if len(s.Times) == 0 {
		return ErrEmptySeries
	}
	return ValidateTimes(s.Times)
}

// ValidateTimes checks that timestamps are strictly increasing.
func ValidateTimes(times []time.Time) error {
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return fmt.Errorf("%w: index %d (%s) does not advance past index %d (%s)",
				ErrNonIncreasing, i, times[i].Format(time.RFC3339), i-1, times[i-1].Format(time.RFC3339))
		}
	}
	return nil
}

// CheckAligned validates a timestamp slice against one or more parallel value
// slices, for callers that keep columns separately rather than in a Series.
func CheckAligned(times []time.Time, columns ...[]float64) error {
	if len(times) == 0 {
		return ErrEmptySeries
	}
	for _, col := range columns {
		if len(col) != len(times) {
			return fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(times), len(col))
		}
	}
	return ValidateTimes(times)
}

// NearestIndex returns the index of the sample in values closest to target.
// If tolerance is positive and the nearest sample differs from target by more
// than tolerance, it returns -1. NaN entries are skipped.
func NearestIndex(values []float64, target, tolerance float64) int {
	best := -1
	bestDiff := math.Inf(1)
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := math.Abs(v - target)
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	if best < 0 {
		return -1
	}
	if tolerance > 0 && bestDiff > tolerance {
		return -1
	}
	return best
}
