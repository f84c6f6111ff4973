package emath

import(
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of floats, with some operations. Row 0 is the
// top row, as in golang's image packages.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int                 { return len(fg.values) / fg.stride }


// FindMaxMinLumAtPercentile sorts the non-zero values and returns
// the ones found at the two percentiles (expressed as [0,1]). If
// every value is zero it returns 0,0.
func (I *FloatGrid)FindMaxMinLumAtPercentile(minPrct, maxPrct float64) (float64, float64) {
	vI := []float64{}

	for i:=0 ; i<len(I.values) ; i++ {
		if val := I.values[i]; val != 0.0 && !math.IsNaN(val) {
			vI = append(vI, val)
		}
	}
	if len(vI) == 0 {
		return 0, 0
	}

	sort.Float64s(vI)

	iMin := int(minPrct * float64(len(vI)))
	iMax := int(maxPrct * float64(len(vI)))
	if iMin < 0        { iMin = 0 }
	if iMin >= len(vI) { iMin = len(vI)-1 }
	if iMax >= len(vI) { iMax = len(vI)-1 }
	if iMax < iMin     { iMax = iMin }

	return vI[iMin], vI[iMax]
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

// ToImg renders a simple grayscale, based on the range of values in
// the grid, and gamma scaling the gray to look normal for human
// vision. The title is drawn in the top left corner.
func (fg *FloatGrid)ToImg(title string) image.Image {
	min, max := fg.MinMax()
	return fg.ToImgWith(title, min, max, func(u float64) color.Color {
		gray := uint16(GammaExpand_F64(u) * 65535.0)
		return color.RGBA64{gray, gray, gray, 0xFFFF}
	})
}

// ToImgWith maps every value into [0,1] over the range [lo,hi], and
// hands it to colorize to pick the pixel color.
func (fg *FloatGrid)ToImgWith(title string, lo, hi float64, colorize func(float64) color.Color) image.Image {
	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			img.Set(x, y, colorize(Unit(fg.Get(x,y), lo, hi)))
		}
	}

	if title == "" {
		return img
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 10, 20)
	return dc.Image()
}
