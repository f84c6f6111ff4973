package pfm

// Reader for Portable Float Map files, as written by HDRShop, pbrt,
// mitsuba etc. A file is three lines of text followed by raw floats:
//
//   PF            ("PF" for RGB, "Pf" for grayscale)
//   640 480       (width, height)
//   -1.000000     (scale; negative means little-endian)
//   <width*height*channels IEEE-754 float32s, bottom row first>

import(
	"encoding/binary"
	"errors"
	"image"
	"io"
	"math"
	"strconv"
	"strings"
)

const maxHeaderLine = 1024

// Header is the parsed text header of a PFM file.
type Header struct {
	Channels int     // 1 for "Pf", 3 for "PF"
	Width    int
	Height   int
	Scale    float64 // as written; the sign selects the byte order
}

// ByteOrder is little-endian for a negative scale, big-endian otherwise.
func (h Header)ByteOrder() binary.ByteOrder {
	if h.Scale < 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// NumSamples is the number of float32s in the body.
func (h Header)NumSamples() int { return h.Width * h.Height * h.Channels }

// BodySize is the number of bytes in the body.
func (h Header)BodySize() int { return 4 * h.NumSamples() }

// Decode reads a PFM image from r. It consumes the header and exactly
// BodySize() bytes of body, nothing more.
func Decode(r io.Reader) (*Image, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, h.BodySize())
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, FormatError("truncated data")
		}
		return nil, err
	}

	order := h.ByteOrder()
	invScale := float32(1.0 / math.Abs(h.Scale))
	samples := make([]float32, h.NumSamples())
	for i := range samples {
		samples[i] = math.Float32frombits(order.Uint32(buf[4*i:])) * invScale
	}

	return NewImage(h.Width, h.Height, samples)
}

// DecodeHeader reads and validates the three header lines. The
// reader is left positioned at the first byte of the body.
func DecodeHeader(r io.Reader) (Header, error) {
	h := Header{}
	lr := newLineReader(r)

	var lines [3]string
	for i := range lines {
		line, err := lr.readLine()
		if err != nil {
			return h, err
		}
		lines[i] = line
	}

	switch {
	case strings.Contains(lines[0], "Pf"): h.Channels = 1
	case strings.Contains(lines[0], "PF"): h.Channels = 3
	default:
		return h, FormatError("unrecognized magic")
	}

	dims := strings.Fields(lines[1])
	if len(dims) < 2 {
		return h, FormatError("invalid dimensions")
	}
	var err1, err2 error
	h.Width, err1 = strconv.Atoi(dims[0])
	h.Height, err2 = strconv.Atoi(dims[1])
	if err1 != nil || err2 != nil || h.Width <= 0 || h.Height <= 0 {
		return h, FormatError("invalid dimensions")
	}
	// The body size has to fit in an int.
	if h.Width > math.MaxInt32 || h.Height > math.MaxInt32 ||
		int64(h.Width)*int64(h.Height) > int64(math.MaxInt)/(4*int64(h.Channels)) {
		return h, FormatError("invalid dimensions")
	}

	scale, err := strconv.ParseFloat(strings.TrimSpace(lines[2]), 32)
	if err != nil || scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return h, FormatError("invalid scale")
	}
	h.Scale = scale

	return h, nil
}

// DecodeConfig returns the color model and dimensions of a PFM image
// without reading the body.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	img := Image{width: h.Width, height: h.Height}
	return image.Config{ColorModel: img.ColorModel(), Width: h.Width, Height: h.Height}, nil
}

func decodeImage(r io.Reader) (image.Image, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func init() {
	image.RegisterFormat("pfm", "PF", decodeImage, DecodeConfig)
	image.RegisterFormat("pfm", "Pf", decodeImage, DecodeConfig)
}

// lineReader pulls the header a byte at a time, since the binary body
// follows the last newline directly and must not be read ahead of.
type lineReader struct {
	r  io.Reader
	br io.ByteReader
	b  [1]byte
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{r: r}
	lr.br, _ = r.(io.ByteReader)
	return lr
}

func (lr *lineReader)readByte() (byte, error) {
	if lr.br != nil {
		return lr.br.ReadByte()
	}
	if _, err := io.ReadFull(lr.r, lr.b[:]); err != nil {
		return 0, err
	}
	return lr.b[0], nil
}

func (lr *lineReader)readLine() (string, error) {
	var sb strings.Builder
	for {
		c, err := lr.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return "", FormatError("truncated header")
			}
			return "", err
		}
		if c == '\n' {
			return sb.String(), nil
		}
		if sb.Len() >= maxHeaderLine {
			return "", FormatError("header line too long")
		}
		sb.WriteByte(c)
	}
}
