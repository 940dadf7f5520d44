package model

import "math"

// SteelDensity is the density of reinforcing steel in kg/m³.
const SteelDensity = 7850.0

// AreaTolerance is the slack (cm²) under which provided steel counts as
// covering a required area.
const AreaTolerance = 0.01

// BarArea returns the cross-sectional area in cm² of one bar of diameter d mm.
func BarArea(d int) float64 {
	fd := float64(d)
	return math.Pi * fd * fd / 400
}

// BarsArea returns the area in cm² of n bars of diameter d mm.
func BarsArea(d, n int) float64 {
	return float64(n) * BarArea(d)
}

// BarMass returns the linear mass in kg/m of one bar of diameter d mm.
func BarMass(d int) float64 {
	fd := float64(d)
	return math.Pi * fd * fd / 4 * 1e-6 * SteelDensity
}

// BarsNeeded returns how many bars of diameter d cover area (cm²). Counts
// that do not fit an int, including those for a NaN area or a non-positive
// diameter, saturate at math.MaxInt.
func BarsNeeded(area float64, d int) int {
	if area <= AreaTolerance {
		return 0
	}
	n := math.Ceil(area/BarArea(d) - 1e-9)
	if math.IsNaN(n) || n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// LayerCapacity returns how many bars of diameter d fit side by side in one
// layer of a section of the given width, keeping minClear between bars.
// All lengths are in millimetres.
func LayerCapacity(width, cover float64, stirrupDia, d int, minClear float64) int {
	usable := width - 2*cover - 2*float64(stirrupDia)
	if usable < float64(d) {
		return 0
	}
	n := math.Floor((usable + minClear) / (float64(d) + minClear))
	return int(n)
}

// ClearSpacing returns the clear distance between n evenly spread bars of
// diameter d in one layer. It reports false when fewer than two bars leave
// no gap to measure.
func ClearSpacing(width, cover float64, stirrupDia, d, n int) (float64, bool) {
	if n < 2 {
		return 0, false
	}
	usable := width - 2*cover - 2*float64(stirrupDia)
	return (usable - float64(n*d)) / float64(n-1), true
}

// LayerPitch is the vertical distance between layer centrelines for bars of
// diameter d: one diameter plus a clear gap of max(25 mm, d).
func LayerPitch(d int) float64 {
	gap := math.Max(25, float64(d))
	return float64(d) + gap
}

// StirrupLength returns the developed length (m) of one closed stirrup with
// the given leg count around a width x height section. Interior legs are
// counted as straight ties over the stirrup height.
func StirrupLength(width, height, cover float64, legs int) float64 {
	w := width - 2*cover
	h := height - 2*cover
	if w <= 0 || h <= 0 {
		return 0
	}
	hook := 2 * 75.0
	length := 2*(w+h) + hook
	if legs > 2 {
		length += float64(legs-2) * (h + hook)
	}
	return length / 1000
}

// IsPyramid reports whether every layer holds no more bars than the one
// below it.
func IsPyramid(layers []int) bool {
	for i := 1; i < len(layers); i++ {
		if layers[i] > layers[i-1] {
			return false
		}
	}
	return true
}

// SumLayers returns the total bar count of a layer sequence.
func SumLayers(layers []int) int {
	total := 0
	for _, n := range layers {
		total += n
	}
	return total
}
