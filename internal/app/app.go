// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"razor/internal/appcore"
	"razor/internal/classify"
	"razor/internal/cli"
	"razor/internal/cmdutil"
	"razor/internal/config"
	"razor/internal/logger"
	"razor/internal/store"
)

// RunContext parses argv, runs the batch, and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := -1
	cmd := cli.NewCommand("razor", func(_ *cobra.Command, opt cli.Options) error {
		code = run(parent, stdout, stderr, opt)
		return nil
	})
	if argv == nil {
		argv = []string{} // cobra falls back to os.Args on nil
	}
	cmd.SetArgs(argv)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(parent)

	err := cmd.Execute()
	var ce *config.Error
	switch {
	case err == nil && code < 0:
		// --help or --version
		return appcore.ExitOK
	case err == nil:
		return code
	case errors.As(err, &ce):
		cmdutil.Errorf(stderr, "%v", err)
		return appcore.ExitUsage
	default:
		var ue *cli.UsageError
		if !errors.As(err, &ue) {
			err = &cli.UsageError{Err: err}
		}
		cmdutil.Errorf(stderr, "%v", err)
		return appcore.ExitUsage
	}
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func run(ctx context.Context, stdout, stderr io.Writer, opt cli.Options) int {
	cfg := opt.Config
	if err := config.Validate(cfg); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return appcore.ExitUsage
	}

	runID := uuid.NewString()
	log := logger.New(stderr, cfg.Verbose, runID[:8])
	if opt.ConfigFile != "" {
		log.Debug("config file %s", opt.ConfigFile)
	}
	log.Debug("%s", appcore.Describe(cfg))

	clf, closeFn, err := NewClassifier(cfg, func(err error) {
		log.Debug("cache: %v", err)
	})
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		var ce *config.Error
		if errors.As(err, &ce) {
			return appcore.ExitUsage
		}
		return appcore.ExitFailure
	}
	defer func() {
		if err := closeFn(); err != nil {
			cmdutil.Warnf(stderr, cfg.Quiet, "closing cache: %v", err)
		}
	}()

	return appcore.Run(ctx, stdout, stderr, cfg, clf, log, runID)
}

// NewClassifier builds the adapter named by cfg, wrapped in the SQLite cache
// when cfg.Cache is set. The returned func releases the cache.
func NewClassifier(cfg config.Config, onCacheError func(error)) (classify.Classifier, func() error, error) {
	noop := func() error { return nil }
	cl := cfg.Classifier

	var inner classify.Classifier
	switch {
	case cl.Command != "":
		ex, err := classify.NewExec(cl.Command, cl.Timeout)
		if err != nil {
			return nil, noop, &config.Error{Field: "classifier-cmd", Msg: err.Error()}
		}
		inner = ex
	case cl.URL != "":
		inner = classify.NewHTTP(cl.URL, cl.Rate, cl.Burst, cl.Timeout)
	default:
		return nil, noop, &config.Error{Field: "classifier", Msg: "no classifier configured"}
	}

	if cfg.Cache == "" {
		return inner, noop, nil
	}
	st, err := store.Open(cfg.Cache)
	if err != nil {
		return nil, noop, fmt.Errorf("cache %s: %w", cfg.Cache, err)
	}
	return classify.NewCached(inner, st, onCacheError), st.Close, nil
}
