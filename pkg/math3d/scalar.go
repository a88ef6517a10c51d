package math3d

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Saturate limits v to [0, 1].
func Saturate(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Remap stretches v from [lo, 1] onto [0, 1] and clamps the result.
// Depth values crowd near 1, so a lo close to 1 spreads them out.
func Remap(v, lo float64) float64 {
	if lo >= 1 {
		if v >= 1 {
			return 1
		}
		return 0
	}
	return Saturate((v - lo) / (1 - lo))
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
