package batch

import(
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/abworrall/pfm-tools/pkg/compare"
	"github.com/abworrall/pfm-tools/pkg/pfm"
	"github.com/abworrall/pfm-tools/pkg/sink"
)

// A Report describes how far apart two PFM files are.
type Report struct {
	File1, File2  string
	MSE           float64
	PSNR          float64  // against a peak of 1.0
	Summary       compare.Summary

	DiffOutput    string
	HeatmapOutput string
}

func (r Report)String() string {
	s := fmt.Sprintf("%s vs %s: MSE=%g PSNR=%.2fdB\n  %s", r.File1, r.File2, r.MSE, r.PSNR, r.Summary)
	if r.DiffOutput != "" {
		s += "\n  wrote " + r.DiffOutput
	}
	if r.HeatmapOutput != "" {
		s += "\n  wrote " + r.HeatmapOutput
	}
	return s
}

// Compare loads two PFM files and measures the error between them.
func Compare(cfg Config, file1, file2 string) (Report, error) {
	rep, _, _, err := compareFiles(cfg, file1, file2)
	return rep, err
}

// Diff is Compare, plus it writes the difference image (multiplied by
// cfg.DiffScale) to outfile as a PFM. If cfg.Heatmap is set, a false
// color PNG of the per-pixel error goes next to it.
func Diff(cfg Config, file1, file2, outfile string) (Report, error) {
	rep, img1, img2, err := compareFiles(cfg, file1, file2)
	if err != nil {
		return rep, err
	}

	scale := cfg.DiffScale
	if scale == 0 {
		scale = 1
	}
	diff, err := compare.DifferenceScaled(img1, img2, float32(scale))
	if err != nil {
		return rep, err
	}
	if err := sink.WritePFM(diff, outfile); err != nil {
		return rep, err
	}
	rep.DiffOutput = outfile

	if cfg.Heatmap {
		unscaled, _ := compare.Difference(img1, img2)
		title := fmt.Sprintf("MSE %.4g  PSNR %.2fdB", rep.MSE, rep.PSNR)
		rep.HeatmapOutput = HeatmapName(outfile)
		if err := sink.WritePNG(compare.Heatmap(unscaled, title), rep.HeatmapOutput); err != nil {
			return rep, err
		}
	}

	return rep, nil
}

// HeatmapName is where Diff puts the heatmap for a given diff file.
func HeatmapName(diffFile string) string {
	return strings.TrimSuffix(diffFile, filepath.Ext(diffFile)) + "-heatmap.png"
}

func compareFiles(cfg Config, file1, file2 string) (Report, *pfm.Image, *pfm.Image, error) {
	rep := Report{File1: file1, File2: file2}

	img1, err := DecodeFile(file1)
	if err != nil {
		return rep, nil, nil, err
	}
	img2, err := DecodeFile(file2)
	if err != nil {
		return rep, nil, nil, err
	}

	if rep.MSE, err = compare.MSE(img1, img2); err != nil {
		return rep, nil, nil, fmt.Errorf("compare %s, %s: %w", file1, file2, err)
	}
	rep.PSNR = compare.PSNR(rep.MSE, 1.0)

	diff, err := compare.Difference(img1, img2)
	if err != nil {
		return rep, nil, nil, err
	}
	rep.Summary = compare.Summarize(diff)

	if cfg.Verbosity > 0 && math.IsNaN(rep.MSE) {
		log.Printf("%s vs %s: NaN samples present\n", file1, file2)
	}
	return rep, img1, img2, nil
}
