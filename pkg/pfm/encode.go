package pfm

import(
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// EncodeOptions controls how an Image is written. A nil *EncodeOptions
// writes little-endian with scale 1.
type EncodeOptions struct {
	BigEndian bool
	Scale     float64 // magnitude of the scale line; 0 means 1
}

// Encode writes img to w in PFM format. Samples are multiplied by the
// scale magnitude on the way out, so Decode gives back the original
// values.
func Encode(w io.Writer, img *Image, opts *EncodeOptions) error {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	scale := math.Abs(opts.Scale)
	if scale == 0 {
		scale = 1
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("pfm: can't encode with scale %v", opts.Scale)
	}

	var order binary.ByteOrder = binary.LittleEndian
	scaleLine := "-" + strconv.FormatFloat(scale, 'f', -1, 32)
	if opts.BigEndian {
		order = binary.BigEndian
		scaleLine = strconv.FormatFloat(scale, 'f', -1, 32)
	}

	magic := "PF"
	if img.IsGray() {
		magic = "Pf"
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%s\n", magic, img.width, img.height, scaleLine); err != nil {
		return err
	}

	var buf [4]byte
	for _, s := range img.samples {
		if scale != 1 {
			s *= float32(scale)
		}
		order.PutUint32(buf[:], math.Float32bits(s))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
