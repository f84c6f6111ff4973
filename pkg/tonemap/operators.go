package tonemap

import(
	"fmt"
	"image"

	"github.com/mdouchement/hdr/tmo"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

var(
	// Names of the tonemappers Render knows about. The first two are
	// the simple per-sample mappers in this package; the rest are the
	// global operators from github.com/mdouchement/hdr/tmo.
	Tonemappers = []string{"direct", "scaled", "drago03", "durand", "icam06", "linear", "reinhard05"}
)

func ListTonemappers() string {
	return fmt.Sprintf("%v", Tonemappers)
}

// Render tonemaps img into an LDR image using the named operator.
// gamma is only used by "direct" and "scaled"; the tmo operators do
// their own response curves.
func Render(img *pfm.Image, name string, gamma float64) (image.Image, error) {
	switch name {
	case "direct": return ToRaster(img, gamma), nil
	case "scaled": return ToScaledRaster(img, gamma), nil
	}

	op, err := SetupTonemapper(img, name)
	if err != nil {
		return nil, err
	}
	return op.Perform(), nil
}

// SetupTonemapper builds one of the tmo operators over img. The
// operators read img through the hdr.Image interface, so their
// output is already the right way up.
func SetupTonemapper(img *pfm.Image, name string) (tmo.ToneMappingOperator, error) {
	switch name {
	case "drago03":
		return tmo.NewDefaultDrago03(img), nil

	case "durand":
		return tmo.NewDefaultDurand(img), nil

	case "icam06":
		op := tmo.NewDefaultICam06(img)
		op.MaxClipping = 0.99 // clip the very brightest 1%, fireflies in path-traced renders
		return op, nil

	case "linear":
		return tmo.NewLinear(img), nil

	case "reinhard05":
		return tmo.NewDefaultReinhard05(img), nil
	}

	return nil, fmt.Errorf("tonemapper %q not recognized, wanted one of %s", name, ListTonemappers())
}
