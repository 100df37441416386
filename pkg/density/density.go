// Package density implements empirical equatorial electron density models of
// the plasmasphere and plasma trough. Densities are in cm⁻³, L in Earth
// radii, magnetic local time in hours.
package density

import "math"

// CarpenterAnderson1992Options carries the optional corrections of the
// CA1992 plasmasphere model.
type CarpenterAnderson1992Options struct {
	// DayOfYear enables the seasonal correction when in [1, 366].
	DayOfYear int
	// R13 is the 13-month smoothed sunspot number; the solar-cycle
	// correction applies when HasR13 is set.
	R13    float64
	HasR13 bool
}

// CarpenterAnderson1992Plasmasphere returns the saturated plasmasphere
// density at L:
//
//	log10 ne = -0.3145 L + 3.9043 (+ seasonal + solar-cycle terms)
func CarpenterAnderson1992Plasmasphere(L float64, opts CarpenterAnderson1992Options) float64 {
	log10ne := -0.3145*L + 3.9043
	if opts.DayOfYear >= 1 && opts.DayOfYear <= 366 {
		d := float64(opts.DayOfYear)
		log10ne += 0.15*math.Cos(2*math.Pi*(d+9)/365) - 0.075*math.Cos(4*math.Pi*(d+9)/365)
	}
	if opts.HasR13 {
		log10ne += (0.00127*opts.R13 - 0.0635) * math.Exp(-(L-2)/1.5)
	}
	return math.Pow(10, log10ne)
}

// CarpenterAnderson1992Trough returns the extended plasma trough density at
// L and magnetic local time mlt (hours). MLT above 15 h saturates at 15 h,
// matching the validity range of the fit.
func CarpenterAnderson1992Trough(L, mlt float64) float64 {
	if mlt > 15 {
		mlt = 15
	}
	var a float64
	if mlt < 6 {
		a = 5800 + 300*mlt
	} else {
		a = -800 + 1400*mlt
	}
	return a*math.Pow(L, -4.5) + (1 - math.Exp(-(L-2)/10))
}

// CarpenterAnderson1992 evaluates the combined model: plasmasphere inside
// the plasmapause Lpp, trough outside.
func CarpenterAnderson1992(L, lpp, mlt float64, opts CarpenterAnderson1992Options) float64 {
	if L <= lpp {
		return CarpenterAnderson1992Plasmasphere(L, opts)
	}
	return CarpenterAnderson1992Trough(L, mlt)
}

// Sheeley2001 evaluates the Sheeley et al. (2001) density model. Inside the
// plasmapause the plasmasphere fit (eq. 6) applies; outside, the trough fit
// (eq. 7) with the trough density maximum steered in local time by Kp
// (Gallagher et al. 1998). The fit is valid for 3 <= L <= 7; NaN is returned
// outside that range.
func Sheeley2001(L, lpp, kp float64) float64 {
	if L < 3 || L > 7 {
		return math.NaN()
	}
	if L <= lpp {
		return Sheeley2001Plasmasphere(L)
	}
	lt := 0.145*kp*kp - 2.63*kp + 21.86
	return Sheeley2001Trough(L, lt)
}

// Sheeley2001Plasmasphere returns ne = 1390 (3/L)^4.83.
func Sheeley2001Plasmasphere(L float64) float64 {
	return 1390 * math.Pow(3/L, 4.83)
}

// Sheeley2001Trough returns the trough density at L and local time lt
// (hours):
//
//	ne = 124 (3/L)^4 + 36 (3/L)^3.5 cos(π/12 (lt - (7.7 (3/L)² + 12)))
func Sheeley2001Trough(L, lt float64) float64 {
	x := 3 / L
	phase := lt - (7.7*x*x + 12)
	return 124*math.Pow(x, 4) + 36*math.Pow(x, 3.5)*math.Cos(math.Pi/12*phase)
}
