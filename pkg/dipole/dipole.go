// Package dipole implements the dipole magnetic field model and the
// Schulz & Lanzerotti (1974) bounce-integral approximations used throughout
// the adiabatic-invariant conversions. Distances are in planetary radii and
// field strengths in Gauss.
package dipole

import "math"

// Planet selects the surface equatorial field strength.
type Planet int

const (
	Earth Planet = iota
	Saturn
	Jupiter
)

// Mean equatorial surface field strengths, in Gauss.
const (
	B0Earth   = 0.312
	B0Saturn  = 0.215
	B0Jupiter = 4.28
)

// Approximate values of the bounce integral T at equatorial pitch angles of
// 0 and 90 degrees.
const (
	T0 = 1.3802
	T1 = 0.7405
)

// SurfaceField returns the mean equatorial surface field of the planet in
// Gauss. Unknown planets default to Earth.
func SurfaceField(p Planet) float64 {
	switch p {
	case Saturn:
		return B0Saturn
	case Jupiter:
		return B0Jupiter
	default:
		return B0Earth
	}
}

// B0 returns the equatorial dipole field strength in Gauss at radial distance
// r (planetary radii).
func B0(r float64, planet Planet) float64 {
	return SurfaceField(planet) / (r * r * r)
}

// B returns the dipole field strength in Gauss at radial distance r and
// magnetic latitude mlat (radians).
func B(r, mlat float64, planet Planet) float64 {
	if mlat == 0 {
		return B0(r, planet)
	}
	s := math.Sin(mlat)
	return SurfaceField(planet) / (r * r * r) * math.Sqrt(1+3*s*s)
}

// T approximates the bounce integral T(α) for an equatorial pitch angle al
// in radians:
//
//	T(α) ≈ T0 - (T0-T1)/2 * (sin α + sqrt(sin α))
func T(al float64) float64 {
	y := math.Sin(al)
	return T0 - 0.5*(T0-T1)*(y+math.Sqrt(y))
}

// Y approximates the bounce integral Y(α) related to the second adiabatic
// invariant. Y is undefined at α = 0 (sin α ln sin α diverges); NaN is
// returned there.
func Y(al float64) float64 {
	if al == 0 {
		return math.NaN()
	}
	y := math.Sin(al)
	return 2*(1-y)*T0 + (T0-T1)*(y*math.Log(y)+2*y-2*math.Sqrt(y))
}

// LossCone returns the equatorial loss-cone pitch angle in radians for a
// dipole field with the mirror point at the planetary surface:
//
//	sin²(α_lc) = L^-3 / sqrt(4 - 3/L)
func LossCone(L float64) float64 {
	sin2 := math.Pow(L, -3) / math.Sqrt(4-3/L)
	return math.Asin(math.Sqrt(sin2))
}
