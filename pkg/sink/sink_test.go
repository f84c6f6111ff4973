package sink

import(
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255 * ((x + y) % 2))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestWriteRaster(t *testing.T) {
	dir := t.TempDir()
	src := checker(5, 3)

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			filename := filepath.Join(dir, "out."+format)
			if err := WriteRaster(src, filename, format); err != nil {
				t.Fatalf("WriteRaster: %v", err)
			}

			f, err := os.Open(filename)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer f.Close()

			got, name, err := image.Decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if name != format || got.Bounds() != src.Bounds() {
				t.Fatalf("decoded %q %v", name, got.Bounds())
			}
			r, _, _, _ := got.At(1, 0).RGBA()
			if r != 0xffff {
				t.Fatalf("pixel (1,0) = %#x, want white", r)
			}
		})
	}

	if err := WriteRaster(src, filepath.Join(dir, "x.bmp"), "bmp"); err == nil {
		t.Fatalf("expected error for bmp")
	}
}

func TestWriteHDRAndPFM(t *testing.T) {
	dir := t.TempDir()
	img, _ := pfm.NewImage(2, 2, []float32{0.5, 1, 2, 4})

	if err := WriteHDR(img, filepath.Join(dir, "out.hdr")); err != nil {
		t.Fatalf("WriteHDR: %v", err)
	}
	if fi, err := os.Stat(filepath.Join(dir, "out.hdr")); err != nil || fi.Size() == 0 {
		t.Fatalf("hdr file missing or empty: %v", err)
	}

	filename := filepath.Join(dir, "out.pfm")
	if err := WritePFM(img, filename); err != nil {
		t.Fatalf("WritePFM: %v", err)
	}
	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	back, err := pfm.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := 0; i < img.Len(); i++ {
		if back.Float(i) != img.Float(i) {
			t.Fatalf("sample %d = %v, want %v", i, back.Float(i), img.Float(i))
		}
	}

	if err := WritePFM(img, filepath.Join(dir, "nope", "out.pfm")); err == nil {
		t.Fatalf("expected error writing into a missing dir")
	}
}

func TestThumbnail(t *testing.T) {
	src := checker(100, 50)
	if got := Thumbnail(src, 0); got != image.Image(src) {
		t.Fatalf("maxWidth 0 should return the input")
	}
	if got := Thumbnail(src, 200); got != image.Image(src) {
		t.Fatalf("wide enough image should be returned as is")
	}
	if got := Thumbnail(src, 20).Bounds(); got != image.Rect(0, 0, 20, 10) {
		t.Fatalf("thumbnail bounds = %v", got)
	}
}

func TestOutputName(t *testing.T) {
	for _, tc := range []struct {
		src, dir, ext, want string
	}{
		{"a/b/render.pfm", "", "png", "a/b/render.png"},
		{"a/b/render.pfm", "out", ".tiff", filepath.Join("out", "render.tiff")},
		{"noext", "", "hdr", "noext.hdr"},
	} {
		if got := OutputName(tc.src, tc.dir, tc.ext); got != tc.want {
			t.Fatalf("OutputName(%q,%q,%q) = %q, want %q", tc.src, tc.dir, tc.ext, got, tc.want)
		}
	}
}
