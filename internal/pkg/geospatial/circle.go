package geospatial

import "math"

// CircleArea returns π·r².
func CircleArea(r float64) float64 {
	return math.Pi * r * r
}

// LensArea is the overlap of two circles of equal radius r whose centers are d apart:
//
//	2r²·acos(d/2r) − ½·d·√(4r² − d²)
//
// It returns 0 for d >= 2r and π·r² for d <= 0.
func LensArea(r, d float64) float64 {
	if d >= 2*r {
		return 0
	}
	if d <= 0 {
		return CircleArea(r)
	}
	return 2*r*r*math.Acos(d/(2*r)) - 0.5*d*math.Sqrt(4*r*r-d*d)
}

// CircleOverlapArea returns the intersection area of two circles with radii r1
// and r2 whose centers are d apart. For r1 == r2 it equals LensArea.
func CircleOverlapArea(r1, r2, d float64) float64 {
	if r1 <= 0 || r2 <= 0 || d >= r1+r2 {
		return 0
	}
	if d <= math.Abs(r1-r2) {
		return CircleArea(math.Min(r1, r2))
	}
	if r1 == r2 {
		return LensArea(r1, d)
	}

	a1 := clampUnit((d*d + r1*r1 - r2*r2) / (2 * d * r1))
	a2 := clampUnit((d*d + r2*r2 - r1*r1) / (2 * d * r2))
	k := (-d + r1 + r2) * (d + r1 - r2) * (d - r1 + r2) * (d + r1 + r2)
	if k < 0 {
		k = 0
	}
	return r1*r1*math.Acos(a1) + r2*r2*math.Acos(a2) - 0.5*math.Sqrt(k)
}

// clampUnit keeps acos arguments inside [-1, 1] against rounding drift.
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
