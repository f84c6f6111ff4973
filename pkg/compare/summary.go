package compare

import(
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

// Percentiles are tracked in millionths; errors bigger than histMax
// millionths are recorded as histMax.
const(
	histUnit = 1e6
	histMax  = int64(1) << 50
)

// A Summary describes the distribution of per-pixel error in a
// difference image. The per-pixel error is the mean of its channels.
type Summary struct {
	Pixels    int     // pixels with a finite error
	NonFinite int     // pixels skipped because they were NaN or Inf
	Zero      int     // pixels with no error at all

	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64

	// Approximate percentiles, to three significant figures.
	P50       float64
	P90       float64
	P99       float64
}

func (s Summary)String() string {
	return fmt.Sprintf("pixels %d (%d exact, %d non-finite), mean %.6g, stddev %.6g, min %.6g, max %.6g, p50 %.4g, p90 %.4g, p99 %.4g",
		s.Pixels, s.Zero, s.NonFinite, s.Mean, s.StdDev, s.Min, s.Max, s.P50, s.P90, s.P99)
}

// PixelErrors returns the per-pixel error of diff in stored order.
func PixelErrors(diff *pfm.Image) []float64 {
	w, h := diff.Width(), diff.Height()
	out := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := diff.ColorAt(x, y)
			out = append(out, (float64(r) + float64(g) + float64(b)) / 3.0)
		}
	}
	return out
}

// Summarize gathers statistics about the per-pixel error in diff,
// which is normally the output of Difference.
func Summarize(diff *pfm.Image) Summary {
	s := Summary{}
	vals := []float64{}
	for _, v := range PixelErrors(diff) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.NonFinite++
			continue
		}
		if v == 0 {
			s.Zero++
		}
		vals = append(vals, v)
	}

	s.Pixels = len(vals)
	if s.Pixels == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if s.Pixels < 2 {
		s.StdDev = 0
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)

	hist := hdrhistogram.New(1, histMax, 3)
	for _, v := range vals {
		n := histMax
		if f := math.Round(math.Abs(v) * histUnit); f < float64(histMax) {
			n = int64(f)
		}
		hist.RecordValue(n)
	}
	s.P50 = float64(hist.ValueAtQuantile(50)) / histUnit
	s.P90 = float64(hist.ValueAtQuantile(90)) / histUnit
	s.P99 = float64(hist.ValueAtQuantile(99)) / histUnit

	return s
}
