// Package decay implements the causal exponential-decay convolution used by
// storm-driven magnetospheric coefficient models (Tsyganenko & Sitnov 2005,
// eq. 7). For each channel k with relaxation rate r_k (1/hr) the accumulated
// value at sample i is
//
//	W[i,k] = (r_k / 12) * Σ_{j=start..i} S[j,k] * exp(-r_k * Δt_hours(j, i))
//
// where start is the most recent segment boundary at or before i. Segments
// model causally independent intervals (individual storms): the running sum
// restarts from zero at every boundary, and samples preceding the first
// supplied boundary have no defined integration start, so they keep the fill
// value rather than being silently integrated from index 0.
//
// The implementation uses the O(n)-per-segment recurrence
//
//	W[i] = (r/12)*S[i] + W[i-1]*exp(-r*Δt_hours(i-1, i))
//
// which is algebraically identical to the defining sum; since Δt > 0 by the
// strict-increase validation, every kernel term lies in (0, 1].
package decay

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

// Params configures a convolution.
type Params struct {
	// Rates holds one relaxation rate per source channel, in 1/hour. The
	// number of rates must match the number of columns in the source matrix.
	Rates []float64

	// Boundaries are sample indices at which the accumulation restarts,
	// typically storm onsets. They are de-duplicated, sorted and filtered to
	// the valid index range. Nil or empty means one segment spanning the
	// whole series, starting at index 0. Include index 0 explicitly to also
	// accumulate the stretch before the first storm.
	Boundaries []int

	// Fill is the value assigned to samples outside any segment. Defaults
	// to NaN when left zero-valued via DefaultParams.
	Fill float64
}

// DefaultParams returns parameters with the given rates, no segmentation and
// a NaN fill.
func DefaultParams(rates []float64) Params {
	return Params{Rates: rates, Fill: math.NaN()}
}

// Convolve computes the decayed accumulation for every sample and channel.
// source must be an n×K matrix whose rows follow times; the result has the
// same shape. NaN source samples propagate through the remainder of their
// segment, matching the defining sum.
func Convolve(times []time.Time, source *mat.Dense, p Params) (*mat.Dense, error) {
	if source == nil {
		return nil, fmt.Errorf("decay: nil source matrix")
	}
	n, k := source.Dims()
	if len(times) != n {
		return nil, fmt.Errorf("%w: %d times, %d source rows", timeseries.ErrLengthMismatch, len(times), n)
	}
	if n == 0 {
		return nil, timeseries.ErrEmptySeries
	}
	if err := timeseries.ValidateTimes(times); err != nil {
		return nil, err
	}
	if len(p.Rates) != k {
		return nil, fmt.Errorf("decay: %d rates for %d source channels", len(p.Rates), k)
	}

	w := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			w.Set(i, j, p.Fill)
		}
	}

	for _, seg := range segments(p.Boundaries, n) {
		convolveSegment(times, source, w, p.Rates, seg.lo, seg.hi)
	}
	return w, nil
}

type segment struct{ lo, hi int }

// segments normalizes the boundary list into half-open index ranges. With no
// boundaries the whole series is one segment.
func segments(boundaries []int, n int) []segment {
	if len(boundaries) == 0 {
		return []segment{{0, n}}
	}
	edges := make([]int, 0, len(boundaries)+1)
	seen := make(map[int]struct{}, len(boundaries))
	for _, b := range boundaries {
		if b < 0 || b >= n {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		edges = append(edges, b)
	}
	sort.Ints(edges)
	if len(edges) == 0 {
		return []segment{{0, n}}
	}
	edges = append(edges, n)

	segs := make([]segment, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		if edges[i] < edges[i+1] {
			segs = append(segs, segment{edges[i], edges[i+1]})
		}
	}
	return segs
}

// convolveSegment runs the first-order recurrence over [lo, hi) for every
// channel. The recurrence carries its state in explicit locals; nothing leaks
// across segments.
func convolveSegment(times []time.Time, source, w *mat.Dense, rates []float64, lo, hi int) {
	for ch, r := range rates {
		acc := 0.0
		for i := lo; i < hi; i++ {
			if i > lo {
				dtHours := times[i].Sub(times[i-1]).Hours()
				acc *= math.Exp(-r * dtHours)
			}
			acc += (r / 12.0) * source.At(i, ch)
			w.Set(i, ch, acc)
		}
	}
}
