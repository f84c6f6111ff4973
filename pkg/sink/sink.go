package sink

// Writers for the things the rest of the tool produces: LDR rasters
// (PNG, TIFF), HDR images (Radiance RGBE, PFM), and scaled down
// previews.

import(
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/draw"  // replace by "image/draw" at some point
	"golang.org/x/image/tiff"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

var(
	Formats = []string{"png", "tiff"}
)

func create(filename string, encode func(io.Writer) error) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	}

	if err := encode(writer); err != nil {
		writer.Close()
		return fmt.Errorf("encoding '%s': %w", filename, err)
	}
	return writer.Close()
}

func WritePNG(img image.Image, filename string) error {
	return create(filename, func(w io.Writer) error { return png.Encode(w, img) })
}

func WriteTIFF(img image.Image, filename string) error {
	return create(filename, func(w io.Writer) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	})
}

// WriteRaster writes an LDR image in one of Formats.
func WriteRaster(img image.Image, filename, format string) error {
	switch strings.ToLower(format) {
	case "png":         return WritePNG(img, filename)
	case "tif", "tiff": return WriteTIFF(img, filename)
	}
	return fmt.Errorf("output format %q not recognized, wanted one of %v", format, Formats)
}

// WriteHDR outputs a Radiance RGBE image. You can load this into
// photoshop or other HDR tools.
func WriteHDR(img hdr.Image, filename string) error {
	err := create(filename, func(w io.Writer) error { return rgbe.Encode(w, img) })
	if err != nil {
		log.Printf("WriteHDR: %v\n", err)
	}
	return err
}

// WritePFM writes img as a little-endian PFM file.
func WritePFM(img *pfm.Image, filename string) error {
	return create(filename, func(w io.Writer) error { return pfm.Encode(w, img, nil) })
}

// Thumbnail scales img down so it is at most maxWidth pixels wide,
// keeping the aspect ratio. Images that are already small enough, or
// a maxWidth <= 0, are returned as they are.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// OutputName swaps the extension of src for ext, and moves it into
// dir if dir isn't empty.
func OutputName(src, dir, ext string) string {
	base := strings.TrimSuffix(src, filepath.Ext(src)) + "." + strings.TrimPrefix(ext, ".")
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}
