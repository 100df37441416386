// Package tsyganenko implements the driving functions of the
// Tsyganenko & Sitnov (2005) storm-time magnetic field model: the six
// solar-wind source channels S_k (eq. 8) and the decayed coefficient
// functions W_k (eq. 7). W_k is a causal exponential-decay accumulation of
// S_k with per-channel relaxation rates and optional storm-by-storm resets,
// evaluated by pkg/decay.
package tsyganenko

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/radiation-belts/rbamlib/pkg/decay"
	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

// Channels is the number of TS05 coefficient channels.
const Channels = 6

// Published per-channel exponents of eq. (8) and relaxation rates of eq. (7).
var (
	lambda = [Channels]float64{0.39, 0.46, 0.39, 0.42, 0.41, 1.29}
	beta   = [Channels]float64{0.80, 0.18, 2.32, 1.25, 1.60, 2.40}
	gamma  = [Channels]float64{0.87, 0.67, 1.32, 1.29, 0.69, 0.53}

	// RelaxationRates are the r_k constants in 1/hour.
	RelaxationRates = []float64{0.39, 0.70, 0.031, 0.58, 1.15, 0.88}
)

// SourceChannels computes the n×6 source matrix S from solar wind density
// nsw (cm⁻³), speed vsw (km/s), and IMF Bz (nT):
//
//	S_k = (Nsw/5)^λk * (Vsw/400)^βk * (Bs/5)^γk,  Bs = max(-Bz, 0)
//
// NaN inputs produce NaN rows for the affected samples.
func SourceChannels(nsw, vsw, bz []float64) (*mat.Dense, error) {
	n := len(nsw)
	if len(vsw) != n || len(bz) != n {
		return nil, fmt.Errorf("tsyganenko: %w: %d density, %d speed, %d bz samples",
			timeseries.ErrLengthMismatch, len(nsw), len(vsw), len(bz))
	}
	if n == 0 {
		return nil, timeseries.ErrEmptySeries
	}

	s := mat.NewDense(n, Channels, nil)
	for i := 0; i < n; i++ {
		bs := 0.0
		if bz[i] < 0 {
			bs = -bz[i]
		}
		if math.IsNaN(bz[i]) {
			bs = math.NaN()
		}
		for k := 0; k < Channels; k++ {
			s.Set(i, k, math.Pow(nsw[i]/5.0, lambda[k])*
				math.Pow(vsw[i]/400.0, beta[k])*
				math.Pow(bs/5.0, gamma[k]))
		}
	}
	return s, nil
}

// Coefficients computes the n×6 matrix of W_k coefficient functions from the
// source matrix. stormOnsets, when non-nil, restarts the accumulation at each
// onset index; samples before the first onset hold NaN (include index 0 to
// also cover the pre-storm stretch). With nil onsets the accumulation runs
// from the first sample.
func Coefficients(times []time.Time, source *mat.Dense, stormOnsets []int) (*mat.Dense, error) {
	if source != nil {
		if _, k := source.Dims(); k != Channels {
			return nil, fmt.Errorf("tsyganenko: source must have %d channels, got %d", Channels, k)
		}
	}
	w, err := decay.Convolve(times, source, decay.Params{
		Rates:      RelaxationRates,
		Boundaries: stormOnsets,
		Fill:       math.NaN(),
	})
	if err != nil {
		return nil, fmt.Errorf("tsyganenko: %w", err)
	}
	return w, nil
}
