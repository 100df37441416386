// Package motion provides the periodic-motion timescales of trapped
// particles in a dipole field: the bounce period and its derived
// frequencies. Relativistic kinematics follow the energy/momentum
// conversions in pkg/invariants.
package motion

import (
	"math"

	"github.com/radiation-belts/rbamlib/pkg/dipole"
	"github.com/radiation-belts/rbamlib/pkg/invariants"
)

// CGS constants used by the kinematic conversion.
const (
	speedOfLight = 2.99792458e10 // cm/s
	electronMass = 9.1093837e-28 // g
	mevToErg     = 1.60218e-6

	// Planetary radii in cm.
	radiusEarth   = 6.3712e8
	radiusSaturn  = 6.0268e9
	radiusJupiter = 7.1492e9
)

func planetRadius(p dipole.Planet) float64 {
	switch p {
	case Saturn:
		return radiusSaturn
	case Jupiter:
		return radiusJupiter
	default:
		return radiusEarth
	}
}

// Aliases so callers can pass dipole planets directly.
const (
	Earth   = dipole.Earth
	Saturn  = dipole.Saturn
	Jupiter = dipole.Jupiter
)

// BouncePeriod returns the bounce period in seconds of an electron with
// kinetic energy en (MeV) and equatorial pitch angle al (radians) on the
// given L-shell:
//
//	T_b = (4 L r0 / v) * T(α)
func BouncePeriod(L, al, en float64, planet dipole.Planet) float64 {
	r := L * planetRadius(planet)
	pcErg := invariants.EnergyToPc(en) * mevToErg
	v := (pcErg / speedOfLight) / (electronMass * invariants.EnergyToGamma(en, invariants.MC2))
	return 4 * r / v * dipole.T(al)
}

// BounceFrequency returns the bounce frequency in Hz.
func BounceFrequency(L, al, en float64, planet dipole.Planet) float64 {
	return 1 / BouncePeriod(L, al, en, planet)
}

// OmegaBounce returns the angular bounce frequency in rad/s.
func OmegaBounce(L, al, en float64, planet dipole.Planet) float64 {
	return 2 * math.Pi / BouncePeriod(L, al, en, planet)
}

// LossConeLifetime returns the quarter-bounce lifetime in seconds for
// particles inside the loss cone, NaN for pitch angles at or outside the
// loss-cone angle.
func LossConeLifetime(L, al, en float64, planet dipole.Planet) float64 {
	if !(al < dipole.LossCone(L)) {
		return math.NaN()
	}
	return BouncePeriod(L, al, en, planet) / 4
}
