// Package storms detects geomagnetic storms in an index time series such as
// Dst or SYM-H. Detection is a single left-to-right pass: samples below a
// threshold are grouped into storm regions, where two qualifying samples
// belong to the same region only if the time gap between them (not between
// the region start and the sample) is smaller than the configured gap.
//
// Each region is refined two ways: the onset index, found by walking backward
// from the region's first sample to the last non-negative value ("the storm
// truly began at the last positive crossing"), and the minimum index, the
// sample with the deepest value in the region.
package storms

import (
	"fmt"
	"sort"
	"time"

	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

// Params configures storm detection.
type Params struct {
	// Threshold marks a sample as part of a storm when value < Threshold.
	// For Dst a common choice is -40 nT.
	Threshold float64

	// Gap is the minimum separation between consecutive qualifying samples
	// that starts a new storm region. A separation >= Gap splits.
	Gap time.Duration
}

// DefaultParams returns the conventional Dst storm criteria.
func DefaultParams() Params {
	return Params{Threshold: -40.0, Gap: 2 * time.Hour}
}

// Region is one detected storm.
type Region struct {
	// Indices are the qualifying sample indices, in time order.
	Indices []int

	// Onset is the refined start index: walking back from Indices[0] while
	// the value stays negative, stopping at the last non-negative sample or
	// at index 0 when the whole prefix is negative.
	Onset int

	// Minimum is the index of the deepest value in the region. Ties go to
	// the earliest index.
	Minimum int
}

// Detect finds all storm regions in the series. Regions come back in time
// order; an entirely quiet series yields an empty slice and no error.
func Detect(times []time.Time, values []float64, p Params) ([]Region, error) {
	if err := timeseries.CheckAligned(times, values); err != nil {
		return nil, err
	}
	if p.Gap <= 0 {
		return nil, fmt.Errorf("storms: gap must be positive, got %s", p.Gap)
	}

	var regions []Region
	var current []int
	for i, v := range values {
		if !(v < p.Threshold) {
			continue
		}
		// Gap rule: measured against the previous qualifying sample, not
		// against the start of the region.
		if len(current) > 0 && times[i].Sub(times[current[len(current)-1]]) >= p.Gap {
			regions = append(regions, finishRegion(current, values))
			current = nil
		}
		current = append(current, i)
	}
	if len(current) > 0 {
		regions = append(regions, finishRegion(current, values))
	}
	return regions, nil
}

func finishRegion(indices []int, values []float64) Region {
	return Region{
		Indices: indices,
		Onset:   Backtrack(values, indices[0]),
		Minimum: MinimumIndex(values, indices),
	}
}

// Backtrack walks backward from start while the value is negative, returning
// the first index with a non-negative value, or 0 if the entire prefix is
// negative.
func Backtrack(values []float64, start int) int {
	i := start
	for i > 0 && values[i] < 0 {
		i--
	}
	return i
}

// MinimumIndex returns the index from the candidate set holding the smallest
// value, breaking ties toward the earliest index. It returns -1 for an empty
// candidate set.
func MinimumIndex(values []float64, candidates []int) int {
	best := -1
	for _, idx := range candidates {
		if best < 0 || values[idx] < values[best] {
			best = idx
		}
	}
	return best
}

// Onsets collects the onset index of every region, de-duplicated and sorted
// ascending. Regions are index-disjoint by construction; the unique/sort pass
// guards the rare case of adjacent regions backtracking to the same sample.
func Onsets(regions []Region) []int {
	return uniqueSorted(regions, func(r Region) int { return r.Onset })
}

// Minima collects the minimum index of every region, de-duplicated and sorted
// ascending.
func Minima(regions []Region) []int {
	return uniqueSorted(regions, func(r Region) int { return r.Minimum })
}

func uniqueSorted(regions []Region, pick func(Region) int) []int {
	seen := make(map[int]struct{}, len(regions))
	out := make([]int, 0, len(regions))
	for _, r := range regions {
		idx := pick(r)
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
