// Package config holds the run configuration, loads optional TOML or YAML
// config files, and validates the result before any I/O happens.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"razor/internal/output"
	"razor/internal/protein"
	"razor/internal/runutil"
)

// DefaultOutput is the output directory when none is given.
const DefaultOutput = "result"

// Classifier selects and tunes the external classifier.
type Classifier struct {
	Command string        // subprocess, one call per sequence
	URL     string        // HTTP endpoint, one POST per sequence
	Rate    float64       // requests per second for URL; 0 is unlimited
	Burst   int           // limiter burst; 0 means 1
	Timeout time.Duration // per call; 0 disables
}

// Config is everything a run needs.
type Config struct {
	Path       string
	Output     string
	Format     string
	MaxScan    int
	Workers    int
	Quiet      bool
	Verbose    bool
	Cache      string
	Watch      bool
	Classifier Classifier
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Output:  DefaultOutput,
		Format:  output.FormatTSV,
		MaxScan: protein.DefaultMaxScan,
		Workers: runutil.DefaultWorkers(),
	}
}

// fileConfig mirrors Config with optional fields so only keys present in the
// file override the base.
type fileConfig struct {
	Path       *string `toml:"path" yaml:"path"`
	Output     *string `toml:"output" yaml:"output"`
	Format     *string `toml:"format" yaml:"format"`
	MaxScan    *int    `toml:"max_scan" yaml:"max_scan"`
	Workers    *int    `toml:"ncores" yaml:"ncores"`
	Quiet      *bool   `toml:"quiet" yaml:"quiet"`
	Verbose    *bool   `toml:"verbose" yaml:"verbose"`
	Cache      *string `toml:"cache" yaml:"cache"`
	Watch      *bool   `toml:"watch" yaml:"watch"`
	Classifier struct {
		Command *string  `toml:"command" yaml:"command"`
		URL     *string  `toml:"url" yaml:"url"`
		Rate    *float64 `toml:"rate" yaml:"rate"`
		Burst   *int     `toml:"burst" yaml:"burst"`
		Timeout *string  `toml:"timeout" yaml:"timeout"`
	} `toml:"classifier" yaml:"classifier"`
}

// Load reads the file at path and applies it over base. The format follows
// the extension: .toml, .yaml or .yml.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &Error{Field: "config", Msg: err.Error()}
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return base, &Error{Field: "config", Msg: fmt.Sprintf("unsupported config file %q (want .toml, .yaml or .yml)", path)}
	}
	if err != nil {
		return base, &Error{Field: "config", Msg: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return fc.apply(base)
}

func (fc fileConfig) apply(c Config) (Config, error) {
	setStr(&c.Path, fc.Path)
	setStr(&c.Output, fc.Output)
	setStr(&c.Format, fc.Format)
	setStr(&c.Cache, fc.Cache)
	if fc.MaxScan != nil {
		c.MaxScan = *fc.MaxScan
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.Quiet != nil {
		c.Quiet = *fc.Quiet
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.Watch != nil {
		c.Watch = *fc.Watch
	}
	cl := fc.Classifier
	setStr(&c.Classifier.Command, cl.Command)
	setStr(&c.Classifier.URL, cl.URL)
	if cl.Rate != nil {
		c.Classifier.Rate = *cl.Rate
	}
	if cl.Burst != nil {
		c.Classifier.Burst = *cl.Burst
	}
	if cl.Timeout != nil {
		d, err := time.ParseDuration(*cl.Timeout)
		if err != nil {
			return c, &Error{Field: "classifier.timeout", Msg: err.Error()}
		}
		c.Classifier.Timeout = d
	}
	return c, nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
