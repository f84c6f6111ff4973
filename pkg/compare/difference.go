package compare

import(
	"math"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

// Difference returns a color image of the absolute per-channel
// difference between a and b. Gray inputs are broadcast to all three
// channels, so the result is always color.
func Difference(a, b *pfm.Image) (*pfm.Image, error) {
	return DifferenceScaled(a, b, 1)
}

// DifferenceScaled is Difference with every value multiplied by
// scale, to make small errors visible.
func DifferenceScaled(a, b *pfm.Image, scale float32) (*pfm.Image, error) {
	if err := pfm.CheckSameSize(a, b); err != nil {
		return nil, err
	}

	w, h := a.Width(), a.Height()
	samples := make([]float32, 3*w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r1, g1, b1 := a.ColorAt(x, y)
			r2, g2, b2 := b.ColorAt(x, y)
			o := 3 * (y*w + x)
			samples[o]   = scale * absDiff(r1, r2)
			samples[o+1] = scale * absDiff(g1, g2)
			samples[o+2] = scale * absDiff(b1, b2)
		}
	}

	return pfm.NewImage(w, h, samples)
}

func absDiff(a, b float32) float32 {
	return float32(math.Abs(float64(a - b)))
}
