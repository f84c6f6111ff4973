package batch

import(
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abworrall/pfm-tools/pkg/sink"
	"github.com/abworrall/pfm-tools/pkg/tonemap"
)

// Result records what happened to one input file.
type Result struct {
	Input     string
	Output    string
	HDROutput string
	Err       error
	Duration  time.Duration
}

func (r Result)String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: FAILED: %v", r.Input, r.Err)
	}
	s := fmt.Sprintf("%s -> %s", r.Input, r.Output)
	if r.HDROutput != "" {
		s += ", " + r.HDROutput
	}
	return s + fmt.Sprintf(" (%s)", r.Duration.Round(time.Millisecond))
}

// Convert decodes one PFM file, tonemaps it and writes the LDR output
// (and optionally a Radiance HDR copy).
func Convert(cfg Config, filename string) (res Result) {
	tStart := time.Now()
	res.Input = filename
	defer func() { res.Duration = time.Since(tStart) }()

	img, err := DecodeFile(filename)
	if err != nil {
		res.Err = err
		return res
	}
	if cfg.Verbosity > 0 {
		log.Printf("loaded %s: %s\n", filename, img)
	}

	ldr, err := tonemap.Render(img, cfg.Tonemapper, cfg.Gamma)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", filename, err)
		return res
	}
	ldr = sink.Thumbnail(ldr, cfg.ThumbnailWidth)

	res.Output = sink.OutputName(filename, cfg.OutputDir, cfg.OutputFormat)
	if err := sink.WriteRaster(ldr, res.Output, cfg.OutputFormat); err != nil {
		res.Err = err
		return res
	}

	if cfg.WriteHDR {
		res.HDROutput = sink.OutputName(filename, cfg.OutputDir, "hdr")
		if err := sink.WriteHDR(img, res.HDROutput); err != nil {
			res.Err = err
		}
	}

	return res
}

// ConvertAll runs Convert over all the files, cfg.Workers() at a time.
// A failed file doesn't stop the others; its error is in its Result.
// The returned error is only non-nil if ctx was cancelled, in which
// case files that never started have ctx.Err() as their error.
func ConvertAll(ctx context.Context, cfg Config, files []string) ([]Result, error) {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers())

	var mu sync.Mutex
	nDone := 0

	for i, filename := range files {
		i, filename := i, filename
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Input: filename, Err: err}
				return err
			}
			results[i] = Convert(cfg, filename)

			mu.Lock()
			nDone++
			if cfg.Verbosity > 0 {
				log.Printf("[%d/%d] %s\n", nDone, len(files), results[i])
			}
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// Failures picks out the results that have an error.
func Failures(results []Result) []Result {
	ret := []Result{}
	for _, r := range results {
		if r.Err != nil {
			ret = append(ret, r)
		}
	}
	return ret
}
