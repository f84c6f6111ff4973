package pfm

import "fmt"

// A FormatError reports that the input is not a valid PFM stream.
type FormatError string

func (e FormatError) Error() string { return "pfm: invalid format: " + string(e) }

// A ConstructionError reports a sample count or size that can't make an Image.
type ConstructionError struct {
	Width, Height int
	NumSamples    int
}

func (e *ConstructionError) Error() string {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Sprintf("pfm: image size must be positive, got %dx%d", e.Width, e.Height)
	}
	res := e.Width * e.Height
	return fmt.Sprintf("pfm: %d samples don't fit a %dx%d image (want %d for gray or %d for color)",
		e.NumSamples, e.Width, e.Height, res, 3*res)
}

// A DimensionMismatch is returned when two images must be the same size but aren't.
type DimensionMismatch struct {
	Width1, Height1 int
	Width2, Height2 int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("pfm: the images do not have matching size: %dx%d vs %dx%d",
		e.Width1, e.Height1, e.Width2, e.Height2)
}

// CheckSameSize returns a *DimensionMismatch if the images differ in width or height.
func CheckSameSize(a, b *Image) error {
	if a.width != b.width || a.height != b.height {
		return &DimensionMismatch{a.width, a.height, b.width, b.height}
	}
	return nil
}
