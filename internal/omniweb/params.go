package omniweb

import (
	"fmt"
	"sort"
)

// paramNumbers maps parameter short names to the variable numbers of the
// low-resolution OMNI retrieval form. Numbers may also be requested directly.
var paramNumbers = map[string]int{
	"BRN":            3,  // Bartels Rotation Number
	"IMF_ID":         4,  // IMF Spacecraft ID
	"Plasma_ID":      5,  // Plasma Spacecraft ID
	"IMF_Fine":       6,  // Fine Scale Points in IMF Averages
	"Plasma_Fine":    7,  // Fine Scale Points in Plasma Averages
	"IMF_Mag":        8,  // IMF Magnitude Average, nT
	"IMF_Vr":         9,  // Magnitude, Avg IMF Vr, nT
	"IMF_Lat":        10, // Latitude of Avg. IMF, degrees
	"IMF_Lon":        11, // Longitude of Avg. IMF, degrees
	"Bx_GSE":         12, // Bx component, GSE/GSM, nT
	"By_GSE":         13, // By component, GSE, nT
	"Bz_GSE":         14, // Bz component, GSE, nT
	"By_GSM":         15, // By component, GSM, nT
	"Bz_GSM":         16, // Bz component, GSM, nT
	"Sigma_IMF_Mag":  17, // Sigma in IMF Magnitude Average
	"Sigma_IMF_Vec":  18, // Sigma in IMF Vector Average
	"Sigma_Bx":       19, // Sigma Bx, nT
	"Sigma_By":       20, // Sigma By, nT
	"Sigma_Bz":       21, // Sigma Bz, nT
	"T_p":            22, // Proton Temperature, K
	"N_p":            23, // Proton Density, n/cc
	"V_flow":         24, // Flow Speed, km/sec
	"Flow_Lon":       25, // Flow Longitude, degrees
	"Flow_Lat":       26, // Flow Latitude, degrees
	"Alpha_Proton":   27, // Alpha/Proton Density Ratio
	"Flow_P":         28, // Flow Pressure, nPa
	"Sigma_T":        29,
	"Sigma_Np":       30,
	"Sigma_V":        31,
	"Sigma_Flow_Lon": 32,
	"Sigma_Flow_Lat": 33,
	"Sigma_Alpha":    34,
	"Ey":             35, // Electric Field, mV/m
	"Plasma_Beta":    36,
	"Alfven":         37, // Alfven Mach Number
	"Kp":             38, // Kp*10 Index
	"R_Sunspot":      39, // R Sunspot Number
	"Dst":            40, // Dst Index, nT
	"AE":             41, // AE Index, nT
	"PFlux_1MeV":     42, // Proton Flux > 1 MeV
	"PFlux_2MeV":     43,
	"PFlux_4MeV":     44,
	"PFlux_10MeV":    45,
	"PFlux_30MeV":    46,
	"PFlux_60MeV":    47,
	"Mag_Flux_Flag":  48,
	"AP":             49, // AP index, nT
	"F10.7":          50, // Solar index F10.7
	"PC":             51, // Polar Cap (PCN) index from Thule
	"AL":             52, // AL Index, nT
	"AU":             53, // AU Index, nT
	"Magnetosonic":   54, // Magnetosonic Mach Number
	"Lyman_Alpha":    55, // Lyman Alpha Solar Index, W/m^2
	"Proton_QI":      56, // Proton Quasi-Invariant (QI)
}

// ResolveParams maps parameter short names to their OMNI variable numbers,
// preserving the caller's order. Unknown names are an error.
func ResolveParams(names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("omniweb: no parameters requested")
	}
	out := make([]int, 0, len(names))
	for _, name := range names {
		num, ok := paramNumbers[name]
		if !ok {
			return nil, fmt.Errorf("omniweb: unknown parameter %q", name)
		}
		out = append(out, num)
	}
	return out, nil
}

// KnownParams lists the supported parameter names, sorted.
func KnownParams() []string {
	out := make([]string, 0, len(paramNumbers))
	for name := range paramNumbers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
