// Package magnetopause implements the Shue et al. (1998) magnetopause shape
// model, mapping solar wind dynamic pressure and IMF Bz to the standoff
// distance and flaring of the boundary.
package magnetopause

import (
	"math"
)

// Shue1998Standoff returns the subsolar standoff distance r0 in Earth radii
// for IMF Bz (nT) and dynamic pressure pdyn (nPa).
func Shue1998Standoff(bz, pdyn float64) float64 {
	if bz >= 0 {
		return (11.4 + 0.013*bz) * math.Pow(pdyn, -1/6.6)
	}
	return (11.4 + 0.14*bz) * math.Pow(pdyn, -1/6.6)
}

// Shue1998Flaring returns the flaring exponent α = (0.58 - 0.010 Bz)(1 +
// 0.010 Pdyn).
func Shue1998Flaring(bz, pdyn float64) float64 {
	return (0.58 - 0.010*bz) * (1 + 0.010*pdyn)
}

// Shue1998 returns the magnetopause radial distance in Earth radii at solar
// zenith angle phi (radians):
//
//	r = r0 * (2 / (1 + cos φ))^α
func Shue1998(bz, pdyn, phi float64) float64 {
	r0 := Shue1998Standoff(bz, pdyn)
	alpha := Shue1998Flaring(bz, pdyn)
	return r0 * math.Pow(2/(1+math.Cos(phi)), alpha)
}

// Shue1998Profile evaluates the boundary at each zenith angle for a single
// upstream condition.
func Shue1998Profile(bz, pdyn float64, phis []float64) []float64 {
	out := make([]float64, len(phis))
	r0 := Shue1998Standoff(bz, pdyn)
	alpha := Shue1998Flaring(bz, pdyn)
	for i, phi := range phis {
		out[i] = r0 * math.Pow(2/(1+math.Cos(phi)), alpha)
	}
	return out
}
