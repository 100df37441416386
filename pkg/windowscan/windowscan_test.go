package windowscan

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// daysTimes builds timestamps at the given day offsets from epoch.
func daysTimes(days ...float64) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = epoch.Add(time.Duration(d * 24 * float64(time.Hour)))
	}
	return out
}

func TestTrailingMaxDailySamples(t *testing.T) {
	// Window (0.5, 1.5] at the last sample covers indices {1,2,3}: max = 5.
	times := daysTimes(0, 0.5, 1.0, 1.5)
	values := []float64{1, 2, 5, 3}

	got, err := TrailingMax(times, values, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 2, 5, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTrailingWindowExcludesLeftEdge(t *testing.T) {
	// The interval is open on the left: a sample exactly one lookback before
	// t[i] is outside the window.
	times := daysTimes(0, 1.0)
	values := []float64{9, 1}

	got, err := TrailingMax(times, values, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1] != 1 {
		t.Errorf("left edge sample leaked into window: got %v, want 1", got[1])
	}
}

func TestTrailingMin(t *testing.T) {
	times := daysTimes(0, 0.25, 0.5, 0.75)
	values := []float64{-10, -45, -50, -20}

	got, err := TrailingMin(times, values, 12*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{-10, -45, -50, -50}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestShiftedWindow(t *testing.T) {
	// O'Brien & Moldwin Kp convention: (t-36h, t-2h]. At the first samples
	// the window is empty, the output must hold NaN and keep its length.
	times := make([]time.Time, 48)
	values := make([]float64, 48)
	for i := range times {
		times[i] = epoch.Add(time.Duration(i) * time.Hour)
		values[i] = float64(i % 9)
	}

	got, err := ShiftedMax(times, values, -36*time.Hour, -2*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("output length %d, want %d", len(got), len(values))
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("first samples should be NaN (empty window), got %v, %v", got[0], got[1])
	}
	// At i=10 the window covers hours (–26, 8]: indices 0..8, max of i%9 is 8.
	if got[10] != 8 {
		t.Errorf("index 10: got %v, want 8", got[10])
	}
}

func TestShiftedWindowMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 300
	times := make([]time.Time, n)
	values := make([]float64, n)
	cur := epoch
	for i := 0; i < n; i++ {
		cur = cur.Add(time.Duration(1+rng.Intn(170)) * time.Minute)
		times[i] = cur
		values[i] = rng.NormFloat64() * 10
	}
	start, end := -9*time.Hour, -30*time.Minute

	got, err := ShiftedMin(times, values, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range times {
		want := math.NaN()
		for j := range times {
			if times[j].After(times[i].Add(start)) && !times[j].After(times[i].Add(end)) {
				if math.IsNaN(want) || values[j] < want {
					want = values[j]
				}
			}
		}
		if math.IsNaN(want) != math.IsNaN(got[i]) || (!math.IsNaN(want) && got[i] != want) {
			t.Fatalf("index %d: got %v, brute force %v", i, got[i], want)
		}
	}
}

func TestTrailingMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 500
	times := make([]time.Time, n)
	values := make([]float64, n)
	cur := epoch
	for i := 0; i < n; i++ {
		cur = cur.Add(time.Duration(1+rng.Intn(200)) * time.Minute)
		times[i] = cur
		values[i] = rng.NormFloat64()
	}
	lookback := 6 * time.Hour

	got, err := TrailingMax(times, values, lookback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range times {
		want := math.Inf(-1)
		for j := 0; j <= i; j++ {
			if times[j].After(times[i].Add(-lookback)) && values[j] > want {
				want = values[j]
			}
		}
		if got[i] != want {
			t.Fatalf("index %d: got %v, brute force %v", i, got[i], want)
		}
	}
}

func TestScanRejectsBadInput(t *testing.T) {
	times := daysTimes(0, 1)
	tests := []struct {
		name    string
		times   []time.Time
		values  []float64
		opts    Options
		wantErr error
	}{
		{
			name:    "length mismatch",
			times:   times,
			values:  []float64{1},
			opts:    Options{Mode: Trailing, Lookback: time.Hour},
			wantErr: timeseries.ErrLengthMismatch,
		},
		{
			name:    "empty",
			times:   nil,
			values:  nil,
			opts:    Options{Mode: Trailing, Lookback: time.Hour},
			wantErr: timeseries.ErrEmptySeries,
		},
		{
			name:    "non increasing",
			times:   []time.Time{times[1], times[0]},
			values:  []float64{1, 2},
			opts:    Options{Mode: Trailing, Lookback: time.Hour},
			wantErr: timeseries.ErrNonIncreasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Scan(tt.times, tt.values, tt.opts); !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Scan(times, []float64{1, 2}, Options{Mode: Trailing}); err == nil {
		t.Error("missing lookback should be rejected")
	}
	if _, err := Scan(times, []float64{1, 2}, Options{Mode: Shifted, Start: 0, End: 0}); err == nil {
		t.Error("degenerate shifted window should be rejected")
	}
}

// The left pointer must never regress across a scan; this is what keeps the
// pass amortized linear. Exercised indirectly by instrumenting a copy of the
// trailing loop over synthetic increasing-time arrays.
func TestTrailingPointerMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 400
	times := make([]time.Time, n)
	values := make([]float64, n)
	cur := epoch
	for i := 0; i < n; i++ {
		cur = cur.Add(time.Duration(1+rng.Intn(500)) * time.Second)
		times[i] = cur
		values[i] = rng.Float64()
	}
	lookback := 20 * time.Minute

	lo, prevLo := 0, 0
	for i := 0; i < n; i++ {
		edge := times[i].Add(-lookback)
		for lo <= i && !times[lo].After(edge) {
			lo++
		}
		if lo < prevLo {
			t.Fatalf("left pointer regressed at i=%d: %d -> %d", i, prevLo, lo)
		}
		prevLo = lo
	}
}
