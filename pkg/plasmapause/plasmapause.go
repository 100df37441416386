// Package plasmapause implements empirical plasmapause-location models
// driven by geomagnetic index time series. Each model maps a causal windowed
// aggregate of an index (Kp, AE, or Dst) to the plasmapause L-shell, so every
// output sample depends only on index samples at or before it.
//
// Models: Carpenter & Anderson (1992) eq. 7, Moldwin et al. (2002) eq. 2,
// and O'Brien & Moldwin (2003) eq. 1.
package plasmapause

import (
	"fmt"
	"math"
	"time"

	"github.com/radiation-belts/rbamlib/pkg/windowscan"
)

// CarpenterAnderson1992 computes Lpp = 5.6 - 0.46*Kp24, where Kp24 is the
// maximum Kp over the trailing 24 hours.
func CarpenterAnderson1992(times []time.Time, kp []float64) ([]float64, error) {
	kp24, err := windowscan.TrailingMax(times, kp, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("plasmapause: %w", err)
	}
	lpp := make([]float64, len(kp24))
	for i, v := range kp24 {
		lpp[i] = 5.6 - 0.46*v
	}
	return lpp, nil
}

// Moldwin2002 computes Lpp = 5.39 - 0.382*Kp12, where Kp12 is the maximum Kp
// over the trailing 12 hours.
func Moldwin2002(times []time.Time, kp []float64) ([]float64, error) {
	kp12, err := windowscan.TrailingMax(times, kp, 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("plasmapause: %w", err)
	}
	lpp := make([]float64, len(kp12))
	for i, v := range kp12 {
		lpp[i] = 5.39 - 0.382*v
	}
	return lpp, nil
}

// Index identifies the geomagnetic index driving the O'Brien & Moldwin
// model.
type Index int

const (
	IndexKp Index = iota
	IndexAE
	IndexDst
)

func (ix Index) String() string {
	switch ix {
	case IndexKp:
		return "Kp"
	case IndexAE:
		return "AE"
	case IndexDst:
		return "Dst"
	default:
		return fmt.Sprintf("Index(%d)", int(ix))
	}
}

// obm2003 holds the per-index fit: Lpp = a*Q + b, with Q derived from a
// shifted window (t+start, t+end] over the index.
type obm2003 struct {
	a, b       float64
	start, end time.Duration
}

var obmFits = map[Index]obm2003{
	IndexKp:  {a: -0.43, b: 5.9, start: -36 * time.Hour, end: -2 * time.Hour},
	IndexAE:  {a: -2.86, b: 12.4, start: -36 * time.Hour, end: 0},
	IndexDst: {a: -1.57, b: 6.3, start: -24 * time.Hour, end: 0},
}

// OBrienMoldwin2003 computes the plasmapause location from a single index
// series. Q is max Kp over (-36h, -2h], log10 of max AE over (-36h, 0], or
// log10 |min Dst| over (-24h, 0]. Samples whose window holds no data (always
// the leading Kp samples, because its window ends two hours in the past)
// yield NaN.
func OBrienMoldwin2003(times []time.Time, index []float64, ix Index) ([]float64, error) {
	fit, ok := obmFits[ix]
	if !ok {
		return nil, fmt.Errorf("plasmapause: unknown index type %v", ix)
	}

	var agg []float64
	var err error
	if ix == IndexDst {
		agg, err = windowscan.ShiftedMin(times, index, fit.start, fit.end)
	} else {
		agg, err = windowscan.ShiftedMax(times, index, fit.start, fit.end)
	}
	if err != nil {
		return nil, fmt.Errorf("plasmapause: %w", err)
	}

	lpp := make([]float64, len(agg))
	for i, v := range agg {
		q := v
		switch ix {
		case IndexAE:
			q = math.Log10(v)
		case IndexDst:
			q = math.Log10(math.Abs(v))
		}
		lpp[i] = fit.a*q + fit.b
	}
	return lpp, nil
}
