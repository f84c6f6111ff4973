package compare

import(
	"errors"
	"math"
	"testing"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

func newImage(t *testing.T, w, h int, samples ...float32) *pfm.Image {
	t.Helper()
	img, err := pfm.NewImage(w, h, samples)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func ramp(t *testing.T, w, h, channels int, start, step float32) *pfm.Image {
	t.Helper()
	s := make([]float32, w*h*channels)
	for i := range s {
		s[i] = start + float32(i)*step
	}
	return newImage(t, w, h, s...)
}

func TestMSEIdentical(t *testing.T) {
	for _, ch := range []int{1, 3} {
		img := ramp(t, 7, 5, ch, -3, 0.37)
		mse, err := MSE(img, img)
		if err != nil {
			t.Fatalf("MSE: %v", err)
		}
		if mse != 0 {
			t.Fatalf("MSE(a,a) = %v for %d channels", mse, ch)
		}
	}

	withNaN := newImage(t, 1, 1, float32(math.NaN()))
	if mse, _ := MSE(withNaN, withNaN); mse != 0 {
		t.Fatalf("MSE of NaN image with itself = %v", mse)
	}
}

func TestMSESameMode(t *testing.T) {
	gray1 := newImage(t, 2, 1, 0, 0)
	gray2 := newImage(t, 2, 1, 1, 3)
	mse, err := MSE(gray1, gray2)
	if err != nil {
		t.Fatalf("MSE: %v", err)
	}
	if mse != 5 { // (1 + 9) / 2 pixels
		t.Fatalf("gray MSE = %v, want 5", mse)
	}

	col1 := newImage(t, 1, 2, 0, 0, 0, 0, 0, 0)
	col2 := newImage(t, 1, 2, 1, 1, 1, 2, 0, 0)
	if mse, _ := MSE(col1, col2); mse != 3.5 { // (3 + 4) / 2 pixels
		t.Fatalf("color MSE = %v, want 3.5", mse)
	}
}

func TestMSEMixedMode(t *testing.T) {
	gray := newImage(t, 2, 1, 1, 0)
	color := newImage(t, 2, 1, 1, 2, 3, 0, 0, 1)
	// pixel 0: 0 + 1 + 4, pixel 1: 0 + 0 + 1 -> 6 / 2
	for _, pair := range [][2]*pfm.Image{{gray, color}, {color, gray}} {
		mse, err := MSE(pair[0], pair[1])
		if err != nil {
			t.Fatalf("MSE: %v", err)
		}
		if mse != 3 {
			t.Fatalf("mixed MSE = %v, want 3", mse)
		}
	}
}

func TestMSESymmetric(t *testing.T) {
	a := ramp(t, 16, 9, 3, 0.1, 1e-3)
	b := ramp(t, 16, 9, 3, -2, 7.5e-4)
	g := ramp(t, 16, 9, 1, 3, -1e-2)

	for _, pair := range [][2]*pfm.Image{{a, b}, {a, g}, {g, b}} {
		ab, _ := MSE(pair[0], pair[1])
		ba, _ := MSE(pair[1], pair[0])
		if ab != ba {
			t.Fatalf("MSE not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestMSEPrecision(t *testing.T) {
	// Lots of tiny errors next to one big one; a float32 accumulator
	// would swallow the tiny ones completely.
	const n = 1 << 16
	s1 := make([]float32, n)
	s2 := make([]float32, n)
	s1[0] = 1 << 12
	for i := 1; i < n; i++ {
		s2[i] = 1.0 / 1024
	}
	a := newImage(t, n, 1, s1...)
	b := newImage(t, n, 1, s2...)

	sum, err := SumSquaredError(a, b)
	if err != nil {
		t.Fatalf("SumSquaredError: %v", err)
	}
	want := float64(1<<24) + float64(n-1)/(1<<20)
	if got, _ := sum.Float64(); got != want {
		t.Fatalf("sum = %v, want %v", got, want)
	}
}

func TestMSEDimensionMismatch(t *testing.T) {
	a := ramp(t, 3, 2, 1, 0, 1)
	for _, b := range []*pfm.Image{ramp(t, 2, 3, 1, 0, 1), ramp(t, 3, 3, 3, 0, 1), ramp(t, 4, 2, 1, 0, 1)} {
		_, err := MSE(a, b)
		var dm *pfm.DimensionMismatch
		if !errors.As(err, &dm) {
			t.Fatalf("err = %v, want *DimensionMismatch", err)
		}
		if _, err := Difference(a, b); !errors.As(err, &dm) {
			t.Fatalf("Difference err = %v, want *DimensionMismatch", err)
		}
	}
}

func TestMSENonFinite(t *testing.T) {
	zero := newImage(t, 1, 1, 0)
	inf := newImage(t, 1, 1, float32(math.Inf(1)))
	nan := newImage(t, 1, 1, float32(math.NaN()))

	if mse, _ := MSE(zero, inf); !math.IsInf(mse, 1) {
		t.Fatalf("MSE with Inf = %v", mse)
	}
	if mse, _ := MSE(zero, nan); !math.IsNaN(mse) {
		t.Fatalf("MSE with NaN = %v", mse)
	}
	if _, err := SumSquaredError(zero, nan); !errors.Is(err, ErrNaN) {
		t.Fatalf("SumSquaredError err = %v", err)
	}
	if sum, _ := SumSquaredError(zero, inf); !sum.IsInf() {
		t.Fatalf("SumSquaredError with Inf = %v", sum)
	}
}

func TestPSNR(t *testing.T) {
	if !math.IsInf(PSNR(0, 1), 1) {
		t.Fatalf("PSNR(0) should be +Inf")
	}
	if got := PSNR(0.01, 1); math.Abs(got-20) > 1e-9 {
		t.Fatalf("PSNR(0.01) = %v, want 20", got)
	}
}

func TestDifferenceSelf(t *testing.T) {
	for _, ch := range []int{1, 3} {
		img := ramp(t, 4, 3, ch, -1, 0.5)
		d, err := Difference(img, img)
		if err != nil {
			t.Fatalf("Difference: %v", err)
		}
		if !d.IsColor() || d.Width() != 4 || d.Height() != 3 {
			t.Fatalf("got %s", d)
		}
		for i := 0; i < d.Len(); i++ {
			if d.Float(i) != 0 {
				t.Fatalf("sample %d = %v, want 0", i, d.Float(i))
			}
		}
	}
}

func TestDifferenceScaledMixed(t *testing.T) {
	gray := newImage(t, 2, 2, 1, 2, 3, 4)
	color := ramp(t, 2, 2, 3, 0, 1)

	d, err := DifferenceScaled(gray, color, 2)
	if err != nil {
		t.Fatalf("DifferenceScaled: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			g, _, _ := gray.ColorAt(x, y)
			r2, g2, b2 := color.ColorAt(x, y)
			dr, dg, db := d.ColorAt(x, y)
			if dr != 2*absDiff(g, r2) || dg != 2*absDiff(g, g2) || db != 2*absDiff(g, b2) {
				t.Fatalf("pixel (%d,%d) = (%v,%v,%v)", x, y, dr, dg, db)
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	s := make([]float32, 100*3)
	for p := 0; p < 100; p++ {
		v := float32(p) / 100
		s[3*p], s[3*p+1], s[3*p+2] = v, v, v
	}
	sum := Summarize(newImage(t, 10, 10, s...))

	if sum.Pixels != 100 || sum.Zero != 1 || sum.NonFinite != 0 {
		t.Fatalf("summary counts = %+v", sum)
	}
	if math.Abs(sum.Mean-0.495) > 1e-6 {
		t.Fatalf("mean = %v", sum.Mean)
	}
	if sum.Min != 0 || math.Abs(sum.Max-0.99) > 1e-6 {
		t.Fatalf("min/max = %v/%v", sum.Min, sum.Max)
	}
	if math.Abs(sum.P50-0.49) > 0.01 || math.Abs(sum.P90-0.89) > 0.01 || math.Abs(sum.P99-0.98) > 0.01 {
		t.Fatalf("percentiles = %v %v %v", sum.P50, sum.P90, sum.P99)
	}
	if sum.StdDev <= 0 {
		t.Fatalf("stddev = %v", sum.StdDev)
	}
}

func TestSummarizeSkipsNonFinite(t *testing.T) {
	sum := Summarize(newImage(t, 2, 1, float32(math.NaN()), 0.5))
	if sum.Pixels != 1 || sum.NonFinite != 1 || sum.StdDev != 0 || sum.Mean != 0.5 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestHeatmap(t *testing.T) {
	a := ramp(t, 8, 4, 3, 0, 0.01)
	b := ramp(t, 8, 4, 1, 0, 0)
	d, _ := Difference(a, b)

	m := Heatmap(d, "")
	if m.Bounds().Dx() != 8 || m.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v", m.Bounds())
	}
	// Stored row 0 has the smallest errors and ends up at the bottom.
	r0, g0, b0, _ := m.At(0, 3).RGBA()
	if r0 != 0 || g0 != 0 || b0 != 0 {
		t.Fatalf("lowest error pixel not black: %v %v %v", r0, g0, b0)
	}
	if r, g, _, _ := m.At(7, 0).RGBA(); r < 0xf000 || g < 0xf000 {
		t.Fatalf("highest error pixel not yellow: %v %v", r, g)
	}

	titled := Heatmap(d, "mse")
	if titled.Bounds() != m.Bounds() {
		t.Fatalf("titled bounds = %v", titled.Bounds())
	}
}
