package magnetopause

import (
	"math"
	"testing"
)

func TestShue1998Standoff(t *testing.T) {
	// Nominal conditions: Bz=0, Pdyn=2 nPa gives r0 = 11.4 * 2^(-1/6.6).
	want := 11.4 * math.Pow(2, -1/6.6)
	got := Shue1998Standoff(0, 2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("r0 = %v, want %v", got, want)
	}

	// Southward Bz erodes the boundary much faster than northward Bz
	// expands it (0.14 vs 0.013 nT^-1).
	if !(Shue1998Standoff(-10, 2) < Shue1998Standoff(0, 2)) {
		t.Error("southward Bz should pull the standoff inward")
	}
	if !(Shue1998Standoff(10, 2) > Shue1998Standoff(0, 2)) {
		t.Error("northward Bz should push the standoff outward")
	}

	// Pressure compresses.
	if !(Shue1998Standoff(0, 10) < Shue1998Standoff(0, 1)) {
		t.Error("higher dynamic pressure should compress the boundary")
	}
}

func TestShue1998Flaring(t *testing.T) {
	got := Shue1998Flaring(-5, 2)
	want := (0.58 + 0.05) * 1.02
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("alpha = %v, want %v", got, want)
	}
}

func TestShue1998Shape(t *testing.T) {
	// At the subsolar point (phi=0) the radial distance equals the standoff.
	if got, want := Shue1998(-2, 2, 0), Shue1998Standoff(-2, 2); math.Abs(got-want) > 1e-12 {
		t.Errorf("subsolar distance %v, want %v", got, want)
	}
	// The boundary flares with zenith angle.
	if !(Shue1998(-2, 2, math.Pi/2) > Shue1998(-2, 2, 0)) {
		t.Error("boundary should flare away from the subsolar point")
	}
}

func TestShue1998Profile(t *testing.T) {
	phis := []float64{0, math.Pi / 4, math.Pi / 2}
	profile := Shue1998Profile(-2, 2, phis)
	if len(profile) != len(phis) {
		t.Fatalf("profile length %d, want %d", len(profile), len(phis))
	}
	for i, phi := range phis {
		if want := Shue1998(-2, 2, phi); profile[i] != want {
			t.Errorf("profile[%d] = %v, want %v", i, profile[i], want)
		}
	}
}
