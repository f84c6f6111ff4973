package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// Unit maps v from [lo,hi] onto [0,1], clipping at both ends. An
// empty range maps everything to 0.
func Unit(v, lo, hi float64) float64 {
	if !(hi > lo) || math.IsNaN(v) {
		return 0
	}
	u := (v - lo) / (hi - lo)
	if u < 0 { u = 0 }
	if u > 1 { u = 1 }
	return u
}
