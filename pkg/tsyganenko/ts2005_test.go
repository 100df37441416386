package tsyganenko

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func hourly(n int) []time.Time {
	base := time.Date(2004, 11, 7, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestSourceChannelsReferenceConditions(t *testing.T) {
	// At Nsw=5, Vsw=400, Bz=-5 every normalized factor is 1, so all six
	// channels equal 1.
	s, err := SourceChannels([]float64{5}, []float64{400}, []float64{-5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k := 0; k < Channels; k++ {
		if math.Abs(s.At(0, k)-1) > 1e-12 {
			t.Errorf("channel %d = %v, want 1", k, s.At(0, k))
		}
	}
}

func TestSourceChannelsNorthwardBz(t *testing.T) {
	// Northward IMF (Bz >= 0) gives Bs = 0 and shuts every channel off.
	s, err := SourceChannels([]float64{8}, []float64{550}, []float64{3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k := 0; k < Channels; k++ {
		if s.At(0, k) != 0 {
			t.Errorf("channel %d = %v, want 0 for northward Bz", k, s.At(0, k))
		}
	}
}

func TestSourceChannelsNaNPropagates(t *testing.T) {
	s, err := SourceChannels([]float64{math.NaN(), 5}, []float64{400, 400}, []float64{-5, -5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k := 0; k < Channels; k++ {
		if !math.IsNaN(s.At(0, k)) {
			t.Errorf("channel %d = %v, want NaN", k, s.At(0, k))
		}
		if math.IsNaN(s.At(1, k)) {
			t.Errorf("channel %d row 1 should be finite", k)
		}
	}
}

func TestSourceChannelsRejectsMismatch(t *testing.T) {
	if _, err := SourceChannels([]float64{5}, []float64{400, 401}, []float64{-5}); err == nil {
		t.Error("length mismatch not rejected")
	}
	if _, err := SourceChannels(nil, nil, nil); err == nil {
		t.Error("empty input not rejected")
	}
}

func TestCoefficientsDrivenStorm(t *testing.T) {
	n := 72
	times := hourly(n)
	nsw := make([]float64, n)
	vsw := make([]float64, n)
	bz := make([]float64, n)
	for i := range nsw {
		nsw[i] = 5
		vsw[i] = 400
		bz[i] = 2 // quiet
	}
	// Six hours of strong driving starting at hour 24.
	for i := 24; i < 30; i++ {
		bz[i] = -10
	}

	s, err := SourceChannels(nsw, vsw, bz)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	w, err := Coefficients(times, s, nil)
	if err != nil {
		t.Fatalf("coefficients: %v", err)
	}

	rows, cols := w.Dims()
	if rows != n || cols != Channels {
		t.Fatalf("W dims %dx%d, want %dx%d", rows, cols, n, Channels)
	}
	for k := 0; k < Channels; k++ {
		if w.At(20, k) != 0 {
			t.Errorf("channel %d before driving = %v, want 0", k, w.At(20, k))
		}
		if !(w.At(29, k) > 0) {
			t.Errorf("channel %d during driving = %v, want > 0", k, w.At(29, k))
		}
		if !(w.At(40, k) < w.At(29, k)) {
			t.Errorf("channel %d should relax after driving stops", k)
		}
	}
	// Channel 2 has the slowest relaxation rate and must retain the most of
	// its peak ten hours after driving ends.
	retention := func(k int) float64 { return w.At(40, k) / w.At(29, k) }
	for k := 0; k < Channels; k++ {
		if k != 2 && retention(2) <= retention(k) {
			t.Errorf("slow channel 2 retention %v not above channel %d retention %v",
				retention(2), k, retention(k))
		}
	}
}

func TestCoefficientsWithOnsets(t *testing.T) {
	n := 48
	times := hourly(n)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = 1
	}
	s, err := SourceChannels(vals, vals, vals) // values are irrelevant here
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	w, err := Coefficients(times, s, []int{12})
	if err != nil {
		t.Fatalf("coefficients: %v", err)
	}
	for i := 0; i < 12; i++ {
		if !math.IsNaN(w.At(i, 0)) {
			t.Errorf("index %d before first onset = %v, want NaN", i, w.At(i, 0))
		}
	}
	if math.IsNaN(w.At(12, 0)) {
		t.Error("onset sample should be computed")
	}
}

func TestCoefficientsRejectsBadSource(t *testing.T) {
	times := hourly(2)
	if _, err := Coefficients(times, nil, nil); err == nil {
		t.Error("nil source not rejected")
	}
	if _, err := Coefficients(times, mat.NewDense(2, 3, nil), nil); err == nil {
		t.Error("wrong channel count not rejected")
	}
}
