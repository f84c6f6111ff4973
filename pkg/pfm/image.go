package pfm

import(
	"fmt"
	"image"
	"image/color"

	"github.com/mdouchement/hdr/hdrcolor"
)

// Image holds the decoded samples of a Portable Float Map. It is
// either gray (one sample per pixel) or color (three samples per
// pixel, RGB), depending on how many samples it was built from.
//
// Samples are stored row-major in file order, so row 0 is the bottom
// row of the picture. ColorAt and Float use these stored coordinates;
// the image.Image and hdr.Image methods flip vertically so that y=0 is
// the top, as golang's image packages expect.
type Image struct {
	width   int
	height  int
	samples []float32
}

// NewImage creates an image of the given size from a copy of
// samples. len(samples) must be width*height (gray) or
// 3*width*height (color).
func NewImage(width, height int, samples []float32) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, &ConstructionError{Width: width, Height: height, NumSamples: len(samples)}
	}

	res := width * height
	if res/width != height || (len(samples) != res && len(samples) != 3*res) {
		return nil, &ConstructionError{Width: width, Height: height, NumSamples: len(samples)}
	}

	img := &Image{
		width:   width,
		height:  height,
		samples: make([]float32, len(samples)),
	}
	copy(img.samples, samples)
	return img, nil
}

func (img *Image)Width() int     { return img.width }
func (img *Image)Height() int    { return img.height }
func (img *Image)Len() int       { return len(img.samples) }
func (img *Image)IsGray() bool   { return len(img.samples) == img.width*img.height }
func (img *Image)IsColor() bool  { return len(img.samples) == 3*img.width*img.height }

// Channels is 1 for gray images and 3 for color images.
func (img *Image)Channels() int {
	if img.IsGray() {
		return 1
	}
	return 3
}

// Float returns the i'th sample. It panics if i is out of range.
func (img *Image)Float(i int) float32 { return img.samples[i] }

// SetFloat overwrites the i'th sample. It panics if i is out of range.
func (img *Image)SetFloat(i int, v float32) { img.samples[i] = v }

// Samples returns a copy of all the samples.
func (img *Image)Samples() []float32 {
	out := make([]float32, len(img.samples))
	copy(out, img.samples)
	return out
}

func (img *Image)Clone() *Image {
	return &Image{width: img.width, height: img.height, samples: img.Samples()}
}

// ColorAt returns the RGB color at stored position (x,y). Gray images
// return the same value on all three channels.
func (img *Image)ColorAt(x, y int) (r, g, b float32) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		panic(fmt.Sprintf("pfm: ColorAt(%d,%d) out of range for %dx%d image", x, y, img.width, img.height))
	}

	if img.IsGray() {
		c := img.samples[y*img.width+x]
		return c, c, c
	}
	o := 3 * (y*img.width + x)
	return img.samples[o], img.samples[o+1], img.samples[o+2]
}

func (img *Image)String() string {
	mode := "color"
	if img.IsGray() {
		mode = "gray"
	}
	return fmt.Sprintf("pfm.Image[%dx%d %s]", img.width, img.height, mode)
}

// Implement image.Image
func (img *Image)ColorModel() color.Model  { return hdrcolor.RGBModel }
func (img *Image)Bounds() image.Rectangle  { return image.Rect(0, 0, img.width, img.height) }
func (img *Image)At(x, y int) color.Color  { return img.HDRAt(x, y) }

// Implement hdr.Image
func (img *Image)Size() int                { return img.width * img.height }

// HDRAt uses top-down coordinates, so row 0 is the last stored row.
func (img *Image)HDRAt(x, y int) hdrcolor.Color {
	if !(image.Point{x, y}).In(img.Bounds()) {
		return hdrcolor.RGB{}
	}
	r, g, b := img.ColorAt(x, img.height-1-y)
	return hdrcolor.RGB{R: float64(r), G: float64(g), B: float64(b)}
}
