package compare

import(
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/pfm-tools/pkg/emath"
	"github.com/abworrall/pfm-tools/pkg/pfm"
)

var(
	// Low error is black, then blue, red, and yellow for the worst pixels.
	heatmapStops = []colorful.Color{
		{R: 0, G: 0, B: 0},
		{R: 0, G: 0, B: 1},
		{R: 1, G: 0, B: 0},
		{R: 1, G: 1, B: 0},
	}
)

// HeatmapColor picks the color for u in [0,1], blending the stops in
// CIE L*a*b* so the ramp looks even.
func HeatmapColor(u float64) color.Color {
	n := len(heatmapStops) - 1
	seg := int(u * float64(n))
	if seg >= n { seg = n-1 }
	if seg < 0  { seg = 0 }
	t := u*float64(n) - float64(seg)
	return heatmapStops[seg].BlendLab(heatmapStops[seg+1], t).Clamped()
}

// ErrorGrid lays out the per-pixel error of diff top-down, ready for rendering.
func ErrorGrid(diff *pfm.Image) emath.FloatGrid {
	w, h := diff.Width(), diff.Height()
	g := emath.NewFloatGrid(w, h)
	for i, v := range PixelErrors(diff) {
		g.Set(i%w, h-1-i/w, v)
	}
	return g
}

// Heatmap renders the per-pixel error of a difference image in false
// color, upright. The color range runs from the 1st to the 99th
// percentile of the non-zero errors, so a few outliers don't wash
// everything else out. A non-empty title is drawn in the corner.
func Heatmap(diff *pfm.Image, title string) image.Image {
	g := ErrorGrid(diff)
	lo, hi := g.FindMaxMinLumAtPercentile(0.01, 0.99)
	if !(hi > lo) {
		lo = 0
	}
	return g.ToImgWith(title, lo, hi, HeatmapColor)
}
