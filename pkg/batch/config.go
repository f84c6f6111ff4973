package batch

import(
	"fmt"
	"io/ioutil"
	"log"
	"runtime"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/pfm-tools/pkg/sink"
	"github.com/abworrall/pfm-tools/pkg/tonemap"
)

/* Example config file ...

verbosity: 1
gamma: 2.2
tonemapper: direct
outputformat: png
outputdir: previews
writehdr: false
thumbnailwidth: 512
recursive: true
parallelism: 4
diffscale: 10
heatmap: true

*/

type Config struct {
	Verbosity      int

	Gamma          float64  // used by the "direct" and "scaled" tonemappers
	Tonemapper     string   // one of tonemap.Tonemappers
	OutputFormat   string   // one of sink.Formats
	OutputDir      string   // empty means next to the input file
	WriteHDR       bool     // also write a Radiance .hdr next to each LDR output
	ThumbnailWidth int      // scale LDR output down to this width; 0 keeps full size

	Recursive      bool     // descend into subdirectories when collecting .pfm files
	Parallelism    int      // how many files to convert at once; 0 means one per CPU

	DiffScale      float64  // multiplier applied to difference images
	Heatmap        bool     // write a false color PNG alongside difference images
}

func NewConfig() Config {
	return Config{
		Gamma:        2.2,
		Tonemapper:   "direct",
		OutputFormat: "png",
		DiffScale:    1.0,
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %w", filename, err)
	}

	c, err := newConfigFromYaml(contents)
	if err != nil {
		return c, fmt.Errorf("config parse %s: %w", filename, err)
	}
	return c, c.Validate()
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Validate checks the values that would otherwise only fail halfway
// through a batch.
func (c Config)Validate() error {
	if !(c.Gamma > 0) {
		return fmt.Errorf("gamma must be positive, got %v", c.Gamma)
	}
	if !contains(tonemap.Tonemappers, c.Tonemapper) {
		return fmt.Errorf("no tonemapper named '%s', wanted %s", c.Tonemapper, tonemap.ListTonemappers())
	}
	if !contains(sink.Formats, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("no output format named '%s', wanted %v", c.OutputFormat, sink.Formats)
	}
	if c.Parallelism < 0 || c.ThumbnailWidth < 0 {
		return fmt.Errorf("parallelism and thumbnailwidth can't be negative")
	}
	return nil
}

func (c Config)Workers() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	return runtime.NumCPU()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
