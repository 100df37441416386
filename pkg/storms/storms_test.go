package storms

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/radiation-belts/rbamlib/pkg/timeseries"
)

func hourly(n int) []time.Time {
	base := time.Date(2013, 10, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Hourly Dst with two storms: the first bottoms at index 4 (-50), the second
// at index 8 (-42). Backtracking the first crossing of each region to the
// last non-negative sample gives onsets 1 and 7.
func TestDetectTwoStorms(t *testing.T) {
	values := []float64{5, 3, -10, -45, -50, -20, 1, 2, -42, -10}
	times := hourly(len(values))

	regions, err := Detect(times, values, Params{Threshold: -40, Gap: 2 * time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}

	if !equalInts(regions[0].Indices, []int{3, 4}) {
		t.Errorf("first region indices %v, want [3 4]", regions[0].Indices)
	}
	if !equalInts(regions[1].Indices, []int{8}) {
		t.Errorf("second region indices %v, want [8]", regions[1].Indices)
	}
	if got := Minima(regions); !equalInts(got, []int{4, 8}) {
		t.Errorf("minima %v, want [4 8]", got)
	}
	if got := Onsets(regions); !equalInts(got, []int{1, 7}) {
		t.Errorf("onsets %v, want [1 7]", got)
	}
}

func TestGapIsMeasuredBetweenQualifyingSamples(t *testing.T) {
	// Qualifying samples at hours 0, 1, 2 with sub-gap spacing stay one
	// region even though hour 2 is two hours after the region start: the gap
	// rule compares against the previous qualifying sample, not the first.
	values := []float64{-60, -70, -65, 0, 0, -55}
	times := hourly(len(values))

	regions, err := Detect(times, values, Params{Threshold: -40, Gap: 2 * time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if !equalInts(regions[0].Indices, []int{0, 1, 2}) {
		t.Errorf("first region %v, want [0 1 2]", regions[0].Indices)
	}
	if !equalInts(regions[1].Indices, []int{5}) {
		t.Errorf("second region %v, want [5]", regions[1].Indices)
	}
}

func TestGapBoundaryStartsNewRegion(t *testing.T) {
	// A separation exactly equal to the gap splits.
	values := []float64{-60, -60}
	times := hourly(2) // 1 hour apart

	regions, err := Detect(times, values, Params{Threshold: -40, Gap: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
}

func TestQuietSeries(t *testing.T) {
	values := []float64{10, 5, -3, 0}
	regions, err := Detect(hourly(len(values)), values, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("got %d regions over quiet data, want 0", len(regions))
	}
}

// A fully negative prefix has no zero-crossing to find; the onset pins to
// index 0.
func TestBacktrackNegativePrefix(t *testing.T) {
	values := []float64{-5, -20, -45, -50}
	regions, err := Detect(hourly(len(values)), values, Params{Threshold: -40, Gap: 2 * time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}
	if regions[0].Onset != 0 {
		t.Errorf("onset %d, want 0", regions[0].Onset)
	}
}

// Re-applying the backtracker to its own output is a no-op whenever the value
// there is non-negative.
func TestBacktrackFixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]float64, 200)
	for i := range values {
		values[i] = rng.NormFloat64() * 30
	}
	for start := range values {
		first := Backtrack(values, start)
		if values[first] >= 0 {
			if again := Backtrack(values, first); again != first {
				t.Fatalf("start %d: backtrack not a fixed point (%d -> %d)", start, first, again)
			}
		}
	}
}

// Concatenating all region indices reproduces exactly the qualifying set, in
// order and without duplicates.
func TestRegionsPartitionQualifyingSet(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	n := 500
	times := make([]time.Time, n)
	values := make([]float64, n)
	cur := time.Date(2017, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		cur = cur.Add(time.Duration(10+rng.Intn(170)) * time.Minute)
		times[i] = cur
		values[i] = rng.NormFloat64() * 40
	}
	p := Params{Threshold: -40, Gap: 3 * time.Hour}

	regions, err := Detect(times, values, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var flattened []int
	for _, r := range regions {
		flattened = append(flattened, r.Indices...)
	}
	var want []int
	for i, v := range values {
		if v < p.Threshold {
			want = append(want, i)
		}
	}
	if !equalInts(flattened, want) {
		t.Fatalf("concatenated regions differ from qualifying set:\n got %v\nwant %v", flattened, want)
	}
}

func TestMinimumIndexTies(t *testing.T) {
	values := []float64{0, -50, -30, -50}
	if got := MinimumIndex(values, []int{1, 2, 3}); got != 1 {
		t.Errorf("tie should resolve to earliest index: got %d, want 1", got)
	}
	if got := MinimumIndex(values, nil); got != -1 {
		t.Errorf("empty candidate set: got %d, want -1", got)
	}
}

func TestDetectRejectsBadInput(t *testing.T) {
	times := hourly(2)
	if _, err := Detect(times, []float64{1}, DefaultParams()); !errors.Is(err, timeseries.ErrLengthMismatch) {
		t.Errorf("length mismatch not rejected: %v", err)
	}
	if _, err := Detect(nil, nil, DefaultParams()); !errors.Is(err, timeseries.ErrEmptySeries) {
		t.Errorf("empty series not rejected: %v", err)
	}
	if _, err := Detect(times, []float64{1, 2}, Params{Threshold: -40, Gap: 0}); err == nil {
		t.Error("zero gap not rejected")
	}
}
