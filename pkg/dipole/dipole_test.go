package dipole

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestB0(t *testing.T) {
	tests := []struct {
		name   string
		r      float64
		planet Planet
		want   float64
	}{
		{"earth surface", 1, Earth, 0.312},
		{"earth L=2", 2, Earth, 0.312 / 8},
		{"saturn surface", 1, Saturn, 0.215},
		{"jupiter surface", 1, Jupiter, 4.28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := B0(tt.r, tt.planet); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("B0(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestBReducesToB0AtEquator(t *testing.T) {
	for _, r := range []float64{1, 2.5, 6.6} {
		if got, want := B(r, 0, Earth), B0(r, Earth); got != want {
			t.Errorf("B(%v, 0) = %v, want %v", r, got, want)
		}
	}
}

func TestBAtPole(t *testing.T) {
	// At the pole the dipole field is twice the equatorial value.
	got := B(1, math.Pi/2, Earth)
	want := 2 * B0(1, Earth)
	if !almostEqual(got, want, 1e-12) {
		t.Errorf("B at pole = %v, want %v", got, want)
	}
}

func TestTEndpoints(t *testing.T) {
	// T(0) = T0 and T(90°) = T1 by construction of the approximation.
	if got := T(0); !almostEqual(got, T0, 1e-12) {
		t.Errorf("T(0) = %v, want %v", got, T0)
	}
	if got := T(math.Pi / 2); !almostEqual(got, T1, 1e-9) {
		t.Errorf("T(90°) = %v, want %v", got, T1)
	}
}

func TestYEndpoints(t *testing.T) {
	if !math.IsNaN(Y(0)) {
		t.Errorf("Y(0) = %v, want NaN", Y(0))
	}
	// Y(90°) = 0: sin=1 makes every term vanish.
	if got := Y(math.Pi / 2); !almostEqual(got, 0, 1e-9) {
		t.Errorf("Y(90°) = %v, want 0", got)
	}
	// Y decreases monotonically toward 90 degrees.
	prev := Y(0.05)
	for al := 0.1; al < math.Pi/2; al += 0.05 {
		cur := Y(al)
		if cur > prev {
			t.Fatalf("Y not decreasing at al=%v: %v -> %v", al, prev, cur)
		}
		prev = cur
	}
}

func TestLossCone(t *testing.T) {
	// At L=1 the loss cone fills the whole equatorial plane.
	if got := LossCone(1); !almostEqual(got, math.Pi/2, 1e-9) {
		t.Errorf("LossCone(1) = %v, want π/2", got)
	}
	// Geosynchronous orbit: a couple of degrees.
	got := LossCone(6.6) * 180 / math.Pi
	if got < 2.0 || got > 3.0 {
		t.Errorf("LossCone(6.6) = %v degrees, want about 2.5", got)
	}
	// Shrinks with L.
	if !(LossCone(4) > LossCone(6)) {
		t.Error("loss cone should shrink with increasing L")
	}
}
