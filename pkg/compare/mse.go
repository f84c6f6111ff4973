package compare

import(
	"errors"
	"math"
	"math/big"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

// Precision of the error accumulator, in bits. The square of the
// difference of two float32s needs at most ~560 bits, and a sum of a
// few billion of them adds ~32 more, so at this precision the sum of
// squared errors is exact.
const accPrec = 1024

var ErrNaN = errors.New("compare: NaN sample in error sum")

// MSE is the mean squared error between two images of the same size,
// summed over channels and divided by the number of pixels.
//
// If both images are gray, or both color, every pair of samples
// contributes. If one is gray and the other color, the gray sample is
// compared against each of the three color channels.
//
// Bit-identical samples contribute nothing, even NaNs, so MSE(a,a) is
// always 0. Otherwise a NaN gives a NaN result and an infinite
// difference gives +Inf.
func MSE(a, b *pfm.Image) (float64, error) {
	sum, special, err := accumulate(a, b)
	if err != nil {
		return 0, err
	}

	res := float64(a.Width() * a.Height())
	if special != 0 {
		return special / res, nil
	}

	q := new(big.Float).SetPrec(accPrec).Quo(sum, new(big.Float).SetPrec(accPrec).SetFloat64(res))
	mse, _ := q.Float64()
	return mse, nil
}

// SumSquaredError returns the exact sum of squared errors that MSE
// divides down. It fails with ErrNaN if any squared error is NaN.
func SumSquaredError(a, b *pfm.Image) (*big.Float, error) {
	sum, special, err := accumulate(a, b)
	switch {
	case err != nil:            return nil, err
	case math.IsNaN(special):   return nil, ErrNaN
	case special != 0:          return new(big.Float).SetInf(false), nil
	}
	return sum, nil
}

// PSNR is the peak signal to noise ratio in dB for a given MSE, with
// peak the largest legitimate sample value (1.0 for most renders).
func PSNR(mse, peak float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(peak*peak/mse)
}

// accumulate sums the squared errors exactly into a big.Float. Terms
// involving NaN or Inf can't live in a big.Float, so they're summed
// separately as float64 in special.
func accumulate(a, b *pfm.Image) (*big.Float, float64, error) {
	if err := pfm.CheckSameSize(a, b); err != nil {
		return nil, 0, err
	}

	sum := new(big.Float).SetPrec(accPrec)
	d   := new(big.Float).SetPrec(accPrec)
	t   := new(big.Float).SetPrec(accPrec)
	special := 0.0

	add := func(x, y float32) {
		if x == y || math.Float32bits(x) == math.Float32bits(y) {
			return
		}
		fx, fy := float64(x), float64(y)
		if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
			special += (fx - fy) * (fx - fy)
			return
		}
		d.SetFloat64(fx)
		t.SetFloat64(fy)
		d.Sub(d, t)
		d.Mul(d, d)
		sum.Add(sum, d)
	}

	switch {
	case a.Channels() == b.Channels():
		for i := 0; i < a.Len(); i++ {
			add(a.Float(i), b.Float(i))
		}

	default:
		gray, color := a, b
		if b.IsGray() {
			gray, color = b, a
		}
		for p := 0; p < gray.Len(); p++ {
			g := gray.Float(p)
			add(g, color.Float(3*p))
			add(g, color.Float(3*p+1))
			add(g, color.Float(3*p+2))
		}
	}

	return sum, special, nil
}
