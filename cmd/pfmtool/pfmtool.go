package main

import(
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/abworrall/pfm-tools/pkg/batch"
	"github.com/abworrall/pfm-tools/pkg/pfm"
	"github.com/abworrall/pfm-tools/pkg/sink"
	"github.com/abworrall/pfm-tools/pkg/tonemap"
)

var(
	fMode string
	fVerbosity int
	fRecursive bool
	fGamma float64
	fTonemapper string
	fFormat string
	fWriteHDR bool
	fThumbnailWidth int
	fParallelism int
	fDiffScale float64
	fHeatmap bool
	fOutput string
)

func init() {
	flag.StringVar(&fMode, "mode", "convert", "what to do: convert, mse, diff, info")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.BoolVar(&fRecursive, "r", false, "descend into subdirectories looking for .pfm files")

	flag.Float64Var(&fGamma, "gamma", 2.2, "gamma for the direct and scaled tonemappers")
	flag.StringVar(&fTonemapper, "tonemapper", "direct", "how to tonemap from HDR to LDR: "+tonemap.ListTonemappers())
	flag.StringVar(&fFormat, "format", "png", fmt.Sprintf("LDR output format, one of %v", sink.Formats))
	flag.BoolVar(&fWriteHDR, "hdr", false, "also write a Radiance .hdr for each input")
	flag.IntVar(&fThumbnailWidth, "thumb", 0, "scale LDR output down to this width (0 == full size)")
	flag.IntVar(&fParallelism, "j", 0, "files to convert at once (0 == one per CPU)")

	flag.Float64Var(&fDiffScale, "diffscale", 1.0, "multiply difference images by this")
	flag.BoolVar(&fHeatmap, "heatmap", false, "in diff mode, also write a false color heatmap PNG")
	flag.StringVar(&fOutput, "o", "", "output dir for convert, output file for diff (default diff.pfm)")
	flag.Parse()

	log.Printf("pfmtool starting\n")
}

// applyFlags copies the flags that were actually given onto cfg, so
// they win over anything from a yaml file.
func applyFlags(cfg *batch.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":          cfg.Verbosity = fVerbosity
		case "r":          cfg.Recursive = fRecursive
		case "gamma":      cfg.Gamma = fGamma
		case "tonemapper": cfg.Tonemapper = fTonemapper
		case "format":     cfg.OutputFormat = fFormat
		case "hdr":        cfg.WriteHDR = fWriteHDR
		case "thumb":      cfg.ThumbnailWidth = fThumbnailWidth
		case "j":          cfg.Parallelism = fParallelism
		case "diffscale":  cfg.DiffScale = fDiffScale
		case "heatmap":    cfg.Heatmap = fHeatmap
		case "o":
			if fMode == "convert" {
				cfg.OutputDir = fOutput
			}
		}
	})
}

func main() {
	job, err := batch.Collect(fRecursive, flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(&job.Config)
	if err := job.Validate(); err != nil {
		log.Fatal(err)
	}

	if job.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", job.Config.AsYaml())
	}

	switch fMode {
	case "convert": convert(job)
	case "mse":     mse(job)
	case "diff":    diff(job)
	case "info":    info(job)
	default:
		log.Fatalf("mode '%s' not known, wanted convert, mse, diff or info\n", fMode)
	}
}

func convert(job batch.Job) {
	if job.OutputDir != "" {
		if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := batch.ConvertAll(ctx, job.Config, job.Files)
	for _, r := range results {
		fmt.Println(r)
	}
	if err != nil {
		log.Fatal(err)
	}
	if failed := batch.Failures(results); len(failed) > 0 {
		log.Fatalf("%d of %d files failed\n", len(failed), len(results))
	}
}

func twoFiles(job batch.Job) (string, string) {
	if len(job.Files) != 2 {
		log.Fatalf("mode '%s' needs exactly two .pfm files, got %d\n", fMode, len(job.Files))
	}
	return job.Files[0], job.Files[1]
}

func mse(job batch.Job) {
	f1, f2 := twoFiles(job)
	rep, err := batch.Compare(job.Config, f1, f2)
	if err != nil {
		log.Fatal(err)
	}
	if job.Verbosity > 0 {
		fmt.Println(rep)
	} else {
		fmt.Printf("%g\n", rep.MSE)
	}
}

func diff(job batch.Job) {
	f1, f2 := twoFiles(job)
	out := fOutput
	if out == "" {
		out = "diff.pfm"
	}
	rep, err := batch.Diff(job.Config, f1, f2, out)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rep)
}

func info(job batch.Job) {
	for _, filename := range job.Files {
		f, err := os.Open(filename)
		if err != nil {
			log.Fatal(err)
		}
		h, err := pfm.DecodeHeader(f)
		f.Close()
		if err != nil {
			fmt.Printf("%s: %v\n", filename, err)
			continue
		}
		fmt.Printf("%s: %dx%d, %d channel(s), scale %g, %s\n", filename, h.Width, h.Height, h.Channels, h.Scale, h.ByteOrder())
	}
}
