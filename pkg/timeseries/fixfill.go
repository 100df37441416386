package timeseries

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/interp"
)

// FillMatch selects which values count as missing relative to the fill value.
type FillMatch int

const (
	// MatchEqual treats values exactly equal to the fill value as missing.
	MatchEqual FillMatch = iota
	// MatchGreaterEqual treats values >= the fill value as missing. Archive
	// feeds commonly use large positive sentinels (999.9, 9999).
	MatchGreaterEqual
	// MatchLessEqual treats values <= the fill value as missing.
	MatchLessEqual
)

// FixFill replaces sentinel fill values in a series with NaN and returns the
// cleaned values. The input slice is not modified and output length always
// equals input length.
func FixFill(values []float64, fill float64, match FillMatch) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		missing := false
		switch match {
		case MatchEqual:
			missing = v == fill
		case MatchGreaterEqual:
			missing = v >= fill
		case MatchLessEqual:
			missing = v <= fill
		default:
			return nil, fmt.Errorf("timeseries: unknown fill match mode %d", match)
		}
		if missing {
			out[i] = math.NaN()
		} else {
			out[i] = v
		}
	}
	return out, nil
}

// FixFillInterp replaces sentinel fill values with linearly interpolated
// values, using elapsed seconds from the first sample as the abscissa.
// Samples outside the span of valid data stay NaN. If fewer than two valid
// samples remain, the NaN-scrubbed series is returned unchanged.
func FixFillInterp(times []time.Time, values []float64, fill float64, match FillMatch) ([]float64, error) {
	if err := CheckAligned(times, values); err != nil {
		return nil, err
	}
	scrubbed, err := FixFill(values, fill, match)
	if err != nil {
		return nil, err
	}

	var xs, ys []float64
	for i, v := range scrubbed {
		if !math.IsNaN(v) {
			xs = append(xs, times[i].Sub(times[0]).Seconds())
			ys = append(ys, v)
		}
	}
	if len(xs) < 2 {
		return scrubbed, nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("timeseries: interpolation fit: %w", err)
	}

	out := make([]float64, len(scrubbed))
	for i, v := range scrubbed {
		if !math.IsNaN(v) {
			out[i] = v
			continue
		}
		x := times[i].Sub(times[0]).Seconds()
		if x < xs[0] || x > xs[len(xs)-1] {
			out[i] = math.NaN()
			continue
		}
		out[i] = pl.Predict(x)
	}
	return out, nil
}
