package tonemap

import(
	"image"
	"math"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

// ToRaster gamma corrects every sample with f^(1/gamma) and maps it
// onto [0,255]. Samples below 0 go black, above 1 go white. The
// output is flipped vertically, since PFM stores the bottom row first.
//
// gamma must be positive; it isn't checked.
func ToRaster(img *pfm.Image, gamma float64) *image.RGBA {
	invGamma := 1.0 / gamma
	return fill(img, func(f float32) uint8 {
		return GammaToByte(float64(f), invGamma)
	})
}

// ToScaledRaster first raises every sample to the power gamma, then
// stretches the result so the smallest sample is black and the
// largest is white. A flat image (max == min) comes out mid-gray.
// img itself is left untouched.
func ToScaledRaster(img *pfm.Image, gamma float64) *image.RGBA {
	work := img.Clone()
	min, max := math.Inf(1), math.Inf(-1)

	for i := 0; i < work.Len(); i++ {
		f := float32(math.Pow(float64(work.Float(i)), gamma))
		work.SetFloat(i, f)
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			continue
		}
		if float64(f) < min { min = float64(f) }
		if float64(f) > max { max = float64(f) }
	}

	rng := max - min
	flat := !(rng > 0) || math.IsInf(rng, 0)

	return fill(work, func(f float32) uint8 {
		v := float64(f)
		switch {
		case math.IsNaN(v):     return 0
		case math.IsInf(v, 1):  return 255
		case math.IsInf(v, -1): return 0
		case flat:              return ToByte(0.5)
		}
		return ToByte((v - min) / rng)
	})
}

// ToByte maps v in [0,1] onto [0,255], truncating. NaN maps to 0.
func ToByte(v float64) uint8 {
	return uint8(Clamp(255.0 * v, 0, 255))
}

// GammaToByte is the per-channel mapping used by ToRaster.
func GammaToByte(f, invGamma float64) uint8 {
	switch {
	case math.IsNaN(f): return 0
	case f < 0.0:       return 0
	case f > 1.0:       return 255
	}
	return uint8(Clamp(255.0 * math.Pow(f, invGamma), 0, 255))
}

// Clamp truncates v toward zero and limits it to [min,max]. NaN is
// treated as min, so the result is always in range.
func Clamp(v float64, min, max int) int {
	switch {
	case math.IsNaN(v):       return min
	case v < float64(min):    return min
	case v > float64(max):    return max
	}
	return int(v)
}

// fill builds the RGBA raster, applying toByte to each channel. Row 0
// of the raster is the last stored row of img.
func fill(img *pfm.Image, toByte func(float32) uint8) *image.RGBA {
	w, h := img.Width(), img.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		row := out.Pix[(h-1-y)*out.Stride:]
		for x := 0; x < w; x++ {
			r, g, b := img.ColorAt(x, y)
			p := row[4*x : 4*x+4 : 4*x+4]
			if img.IsGray() {
				v := toByte(r)
				p[0], p[1], p[2] = v, v, v
			} else {
				p[0], p[1], p[2] = toByte(r), toByte(g), toByte(b)
			}
			p[3] = 255
		}
	}

	return out
}
