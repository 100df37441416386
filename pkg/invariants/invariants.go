// Package invariants converts between the physical quantities used in
// radiation belt studies: kinetic energy, relativistic momentum, the first
// and second adiabatic invariants, and magnetic local time. Energies and
// momenta are in MeV, pitch angles in radians, L-shell and radial distance in
// planetary radii.
package invariants

import (
	"math"

	"github.com/radiation-belts/rbamlib/pkg/dipole"
)

// MC2 is the electron rest mass energy in MeV.
const MC2 = 0.51099895

// EnergyToPc returns p*c (MeV) for a kinetic energy en (MeV).
func EnergyToPc(en float64) float64 {
	x := en/MC2 + 1
	return math.Sqrt(x*x-1) * MC2
}

// PcToEnergy returns the kinetic energy (MeV) for p*c (MeV).
func PcToEnergy(pc float64) float64 {
	x := pc / MC2
	return (math.Sqrt(1+x*x) - 1) * MC2
}

// EnergyToGamma returns the Lorentz factor for a kinetic energy en (MeV) and
// rest mass energy mc2 (MeV).
func EnergyToGamma(en, mc2 float64) float64 {
	return en/mc2 + 1
}

// MuToPc returns p*c (MeV) from the first adiabatic invariant mu (MeV/G) at
// radial distance r and pitch angle al:
//
//	pc = sqrt(2 mu mc² B0(r)) / sin α
func MuToPc(mu, r, al float64, planet dipole.Planet) float64 {
	b := dipole.B0(r, planet)
	return math.Sqrt(2*mu*MC2*b) / math.Sin(al)
}

// PcToMu returns the first adiabatic invariant mu (MeV/G) from p*c (MeV) at
// radial distance r and pitch angle al.
func PcToMu(pc, r, al float64, planet dipole.Planet) float64 {
	b := dipole.B0(r, planet)
	s := math.Sin(al)
	return pc * pc * s * s / (2 * MC2 * b)
}

// EnergyToMu converts kinetic energy (MeV) to mu (MeV/G) at radial distance r
// and pitch angle al.
func EnergyToMu(en, r, al float64, planet dipole.Planet) float64 {
	return PcToMu(EnergyToPc(en), r, al, planet)
}

// MuToEnergy converts mu (MeV/G) to kinetic energy (MeV) at radial distance r
// and pitch angle al.
func MuToEnergy(mu, r, al float64, planet dipole.Planet) float64 {
	return PcToEnergy(MuToPc(mu, r, al, planet))
}

// LAlphaToK returns the second adiabatic invariant K (G^0.5 R) for an
// L-shell and equatorial pitch angle al:
//
//	K = Y(α)/sin(α) * L * sqrt(B0(L))
func LAlphaToK(L, al float64, planet dipole.Planet) float64 {
	b := dipole.B0(L, planet)
	return dipole.Y(al) / math.Sin(al) * L * math.Sqrt(b)
}

// MLTToPhi converts magnetic local time (hours) to the magnetic local time
// angle φ in radians, with noon at φ=0 and midnight at φ=π. The result is
// wrapped to [0, 2π).
func MLTToPhi(mlt float64) float64 {
	phi := (math.Mod(mlt, 24) - 12) * math.Pi / 12
	phi = math.Mod(phi, 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi
}

// PhiToMLT converts a magnetic local time angle φ (radians) to magnetic
// local time in hours [0, 24).
func PhiToMLT(phi float64) float64 {
	mlt := math.Mod(12*phi/math.Pi+12, 24)
	if mlt < 0 {
		mlt += 24
	}
	return mlt
}
