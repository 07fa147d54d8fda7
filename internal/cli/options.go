// internal/cli/options.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"razor/internal/config"
	"razor/internal/version"
	"razor/internal/writers"
)

// Options is the resolved command line.
type Options struct {
	Config     config.Config
	ConfigFile string
}

// RunFunc receives the resolved options once flags and the config file are
// merged. Validation is left to the caller.
type RunFunc func(cmd *cobra.Command, opt Options) error

// NewCommand builds the root command. Each call returns fresh flag state.
func NewCommand(name string, run RunFunc) *cobra.Command {
	flags := config.Defaults()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   name + " -p <file.fa|dir|-> [flags]",
		Short: "Detect signal peptides in protein FASTA files",
		Long: name + ` scans the N-terminal region of each protein for a signal peptide and
its cleavage site, then scores fungal and toxin signatures. Every .fa file
in --path produces one table in --output.

Scoring is done by an external classifier, reached either as a command
(--classifier-cmd) or an HTTP endpoint (--classifier-url).`,
		Example:       Examples(name),
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := Resolve(cmd, flags, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd, Options{Config: c, ConfigFile: cfgFile})
		},
	}
	cmd.SetVersionTemplate(name + " version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVarP(&flags.Path, "path", "p", "", "FASTA file, directory of .fa files, or - for stdin")
	f.StringVarP(&flags.Output, "output", "o", config.DefaultOutput, "output directory, or - for stdout")
	f.IntVarP(&flags.MaxScan, "max-scan", "m", flags.MaxScan, "check for cleavage site up to this residue (>= 16)")
	f.IntVarP(&flags.Workers, "ncores", "n", flags.Workers, "number of concurrent classifier calls")
	f.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress warnings")
	f.StringVar(&flags.Format, "format", flags.Format, "output format: "+strings.Join(writers.Formats(), " | "))
	f.StringVar(&flags.Classifier.Command, "classifier-cmd", "", "classifier command, run once per sequence")
	f.StringVar(&flags.Classifier.URL, "classifier-url", "", "classifier HTTP endpoint")
	f.Float64Var(&flags.Classifier.Rate, "rate", 0, "max classifier requests per second for --classifier-url (0 = unlimited)")
	f.IntVar(&flags.Classifier.Burst, "burst", 0, "request burst allowed above --rate")
	f.DurationVar(&flags.Classifier.Timeout, "timeout", 0, "per-sequence classifier timeout (0 = none)")
	f.StringVar(&flags.Cache, "cache", "", "SQLite file caching classifier results")
	f.BoolVar(&flags.Watch, "watch", false, "keep running and process new .fa files in --path")
	f.BoolVar(&flags.Verbose, "verbose", false, "debug logging on stderr")
	f.StringVar(&cfgFile, "config", "", "TOML or YAML config file; flags given explicitly win")
	return cmd
}

// overrides copies one flag's value from the flag-bound config.
var overrides = map[string]func(dst *config.Config, src config.Config){
	"path":           func(d *config.Config, s config.Config) { d.Path = s.Path },
	"output":         func(d *config.Config, s config.Config) { d.Output = s.Output },
	"max-scan":       func(d *config.Config, s config.Config) { d.MaxScan = s.MaxScan },
	"ncores":         func(d *config.Config, s config.Config) { d.Workers = s.Workers },
	"quiet":          func(d *config.Config, s config.Config) { d.Quiet = s.Quiet },
	"format":         func(d *config.Config, s config.Config) { d.Format = s.Format },
	"classifier-cmd": func(d *config.Config, s config.Config) { d.Classifier.Command = s.Classifier.Command },
	"classifier-url": func(d *config.Config, s config.Config) { d.Classifier.URL = s.Classifier.URL },
	"rate":           func(d *config.Config, s config.Config) { d.Classifier.Rate = s.Classifier.Rate },
	"burst":          func(d *config.Config, s config.Config) { d.Classifier.Burst = s.Classifier.Burst },
	"timeout":        func(d *config.Config, s config.Config) { d.Classifier.Timeout = s.Classifier.Timeout },
	"cache":          func(d *config.Config, s config.Config) { d.Cache = s.Cache },
	"watch":          func(d *config.Config, s config.Config) { d.Watch = s.Watch },
	"verbose":        func(d *config.Config, s config.Config) { d.Verbose = s.Verbose },
}

// Resolve merges defaults, the config file, and the flags the user set.
func Resolve(cmd *cobra.Command, fromFlags config.Config, cfgFile string) (config.Config, error) {
	if cfgFile == "" {
		return fromFlags, nil
	}
	c, err := config.Load(cfgFile, config.Defaults())
	if err != nil {
		return c, err
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply(&c, fromFlags)
		}
	}
	return c, nil
}

// UsageError marks a command line that could not be parsed.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return fmt.Sprintf("%v\nRun with --help for usage.", e.Err) }
func (e *UsageError) Unwrap() error { return e.Err }
