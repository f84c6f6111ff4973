package batch

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/pfm-tools/pkg/pfm"
)

// A Job is a configuration plus the list of PFM files it applies to.
type Job struct {
	Config
	Files []string
}

func NewJob() Job {
	return Job{
		Config: NewConfig(),
		Files:  []string{},
	}
}

// Collect builds a Job from command line arguments: any .yaml files
// become the config, then the .pfm files and directories are expanded.
func Collect(recursive bool, args ...string) (Job, error) {
	j := NewJob()
	if err := j.LoadConfigs(args...); err != nil {
		return j, err
	}
	j.Recursive = j.Recursive || recursive
	err := j.LoadFilesAndDirs(args...)
	return j, err
}

// LoadConfigs looks through args for .yaml files, and loads them in
// order; the last one wins. Everything else is ignored.
func (j *Job)LoadConfigs(args ...string) error {
	for _, arg := range args {
		if strings.ToLower(filepath.Ext(arg)) != ".yaml" {
			continue
		}
		cfg, err := LoadConfig(arg)
		if err != nil {
			return err
		}
		j.Config = cfg
		log.Printf("Loaded base configuration from %s\n", arg)
	}
	return nil
}

// LoadFilesAndDirs adds every .pfm file named in args to the job.
// Directories contribute the .pfm files directly inside them, or
// everything below them if the job is Recursive.
func (j *Job)LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		if err := j.loadArg(arg, true); err != nil {
			return err
		}
	}
	return nil
}

func (j *Job)loadArg(arg string, top bool) error {
	item, err := os.Stat(arg)

	switch {

	case err != nil:
		return fmt.Errorf("load %s: %w", arg, err)

	case item.IsDir():
		if !top && !j.Recursive {
			return nil
		}
		contents, err := ioutil.ReadDir(arg)
		if err != nil {
			return fmt.Errorf("readdir %s: %w", arg, err)
		}
		for _, content := range contents {
			if err := j.loadArg(filepath.Join(arg, content.Name()), false); err != nil {
				return err
			}
		}

	default:
		j.loadFile(arg)
	}

	return nil
}

func (j *Job)loadFile(filename string) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pfm":
		j.Files = append(j.Files, filename)
	case ".yaml":
		// handled by LoadConfigs
	default:
		if j.Verbosity > 1 {
			log.Printf("skipping %s\n", filename)
		}
	}
}

// DecodeFile reads a PFM file from disk.
func DecodeFile(filename string) (*pfm.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %w", filename, err)
	}
	defer f.Close()

	img, err := pfm.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %w", filename, err)
	}
	return img, nil
}
