// Package windowscan implements causal sliding-window reductions over
// irregularly sampled time series. For each sample i the reduction covers the
// samples whose timestamps fall inside a window anchored at t[i]; the window
// never extends past t[i] into the future when used in its causal forms, so
// results at i depend only on samples at or before i.
//
// Two window conventions are supported:
//
//   - Trailing: the half-open interval (t[i]-Lookback, t[i]].
//   - Shifted:  the half-open interval (t[i]+Start, t[i]+End], with
//     Start < End. Negative offsets reach into the past; this is the
//     convention used by shifted-window index models such as
//     O'Brien & Moldwin (2003), e.g. Start=-36h, End=-2h.
//
// The scan advances a left pointer monotonically, so a full pass costs
// O(n + total window occupancy) rather than O(n²).
package windowscan

import (
	"fmt"
	"math"
	"time"

	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

// Mode selects the window convention.
type Mode int

const (
	// Trailing aggregates over (t[i]-Lookback, t[i]].
	Trailing Mode = iota
	// Shifted aggregates over (t[i]+Start, t[i]+End].
	Shifted
)

// Reduction selects the statistic computed over each window.
type Reduction int

const (
	// Max keeps the largest value in the window.
	Max Reduction = iota
	// Min keeps the smallest value in the window.
	Min
)

// Options configures a scan.
type Options struct {
	Mode      Mode
	Reduction Reduction

	// Lookback is the trailing window length. Required for Trailing mode.
	Lookback time.Duration

	// Start and End are offsets from the current timestamp bounding the
	// shifted window (t[i]+Start, t[i]+End]. Required for Shifted mode;
	// Start must be less than End.
	Start, End time.Duration
}

// Scan computes the windowed reduction at every sample. The output has the
// same length as the input; windows containing no samples yield NaN. Samples
// near the start of the series see a truncated window, which is not an error.
func Scan(times []time.Time, values []float64, opts Options) ([]float64, error) {
	if err := timeseries.CheckAligned(times, values); err != nil {
		return nil, err
	}
	switch opts.Mode {
	case Trailing:
		if opts.Lookback <= 0 {
			return nil, fmt.Errorf("windowscan: trailing mode requires a positive lookback, got %s", opts.Lookback)
		}
		return scanTrailing(times, values, opts)
	case Shifted:
		if opts.Start >= opts.End {
			return nil, fmt.Errorf("windowscan: shifted mode requires start < end, got [%s, %s]", opts.Start, opts.End)
		}
		return scanShifted(times, values, opts)
	default:
		return nil, fmt.Errorf("windowscan: unknown mode %d", opts.Mode)
	}
}

// TrailingMax is shorthand for a Trailing/Max scan.
func TrailingMax(times []time.Time, values []float64, lookback time.Duration) ([]float64, error) {
	return Scan(times, values, Options{Mode: Trailing, Reduction: Max, Lookback: lookback})
}

// TrailingMin is shorthand for a Trailing/Min scan.
func TrailingMin(times []time.Time, values []float64, lookback time.Duration) ([]float64, error) {
	return Scan(times, values, Options{Mode: Trailing, Reduction: Min, Lookback: lookback})
}

// ShiftedMax is shorthand for a Shifted/Max scan over (t[i]+start, t[i]+end].
func ShiftedMax(times []time.Time, values []float64, start, end time.Duration) ([]float64, error) {
	return Scan(times, values, Options{Mode: Shifted, Reduction: Max, Start: start, End: end})
}

// ShiftedMin is shorthand for a Shifted/Min scan over (t[i]+start, t[i]+end].
func ShiftedMin(times []time.Time, values []float64, start, end time.Duration) ([]float64, error) {
	return Scan(times, values, Options{Mode: Shifted, Reduction: Min, Start: start, End: end})
}

func scanTrailing(times []time.Time, values []float64, opts Options) ([]float64, error) {
	n := len(times)
	out := make([]float64, n)
	lo := 0
	for i := 0; i < n; i++ {
		// Window is (t[i]-lookback, t[i]]: drop samples at or before the
		// open left edge. lo only ever advances.
		edge := times[i].Add(-opts.Lookback)
		for lo <= i && !times[lo].After(edge) {
			lo++
		}
		out[i] = reduce(values[lo:i+1], opts.Reduction)
	}
	return out, nil
}

func scanShifted(times []time.Time, values []float64, opts Options) ([]float64, error) {
	n := len(times)
	out := make([]float64, n)
	lo, hi := 0, 0
	for i := 0; i < n; i++ {
		left := times[i].Add(opts.Start)
		right := times[i].Add(opts.End)
		// Both pointers advance monotonically: the window edges move
		// forward with t[i].
		for lo < n && !times[lo].After(left) {
			lo++
		}
		if hi < lo {
			hi = lo
		}
		for hi < n && !times[hi].After(right) {
			hi++
		}
		out[i] = reduce(values[lo:hi], opts.Reduction)
	}
	return out, nil
}

// reduce computes the reduction over a window slice, skipping NaNs. An empty
// or all-NaN window yields NaN.
func reduce(window []float64, r Reduction) float64 {
	best := math.NaN()
	for _, v := range window {
		if math.IsNaN(v) {
			continue
		}
		switch {
		case math.IsNaN(best):
			best = v
		case r == Max && v > best:
			best = v
		case r == Min && v < best:
			best = v
		}
	}
	return best
}
