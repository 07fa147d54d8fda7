// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"razor/internal/assemble"
	"razor/internal/classify"
	"razor/internal/cmdutil"
	"razor/internal/config"
	"razor/internal/logger"
	"razor/internal/output"
	"razor/internal/pipeline"
	"razor/internal/progress"
	"razor/internal/protein"
	"razor/internal/runutil"
	"razor/internal/watch"
	"razor/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitFailure  = 3
	ExitCanceled = 130
)

// FileReport summarizes one processed input.
type FileReport struct {
	Input    string
	Output   string // "-" for stdout
	Total    int
	Dropped  int
	Rows     int
	Failed   int
	Degraded int
}

// Runner processes input files one at a time with a shared annotator.
type Runner struct {
	Config    config.Config
	RunID     string
	Annotator pipeline.Annotator
	Log       *logger.Logger
	Stderr    io.Writer

	stdout *bufio.Writer // only used when Config.Output is "-"
}

// ProcessFile reads, annotates and writes one input. A returned error means
// the file produced no output; per-record failures are only counted.
func (r *Runner) ProcessFile(ctx context.Context, input, label string) (FileReport, error) {
	cfg := r.Config
	rep := FileReport{Input: input}
	r.Log.Section(input)

	batch, err := protein.ParseFile(ctx, input, cfg.MaxScan)
	if err != nil {
		return rep, err
	}
	rep.Total, rep.Dropped = batch.Total, batch.Dropped
	if batch.Dropped > 0 {
		cmdutil.Warnf(r.Stderr, cfg.Quiet, "%s: %d sequences were removed due to inconsistencies in the provided file.", input, batch.Dropped)
		for _, reason := range sortedReasons(batch.Drops) {
			r.Log.Debug("%s: dropped %d (%s)", input, batch.Drops[reason], reason)
		}
	}
	r.Log.Info("%s: %d of %d sequences to classify", input, len(batch.Records), batch.Total)

	bar := progress.New(r.Stderr, label, cfg.Quiet).LogTo(r.Log, progress.LogEvery)
	an := r.Annotator
	an.Progress = bar.Update
	results, err := an.Annotate(ctx, batch.Records)
	if err != nil {
		return rep, err
	}
	bar.Done(len(results))

	rows, err := assemble.Rows(batch.Records, results)
	if err != nil {
		return rep, err
	}
	rep.Rows = len(rows)
	rep.Failed, rep.Degraded = assemble.Counts(rows)
	for _, row := range rows {
		if row.Failed() {
			r.Log.Debug("%s: %s: %v", input, row.ID, row.Err)
		}
	}
	if rep.Failed > 0 {
		cmdutil.Warnf(r.Stderr, cfg.Quiet, "%s: classification failed for %d sequences; their columns are %s.", input, rep.Failed, output.NA)
	}
	if rep.Degraded > 0 {
		cmdutil.Warnf(r.Stderr, cfg.Quiet, "%s: optional fungi/toxin scoring was skipped for %d sequences.", input, rep.Degraded)
	}

	meta := output.TableMeta{
		RunID:   r.RunID,
		Source:  input,
		MaxScan: cfg.MaxScan,
		Total:   batch.Total,
		Dropped: batch.Dropped,
	}
	rep.Output, err = r.write(ctx, input, meta, rows)
	return rep, err
}

func (r *Runner) write(ctx context.Context, input string, meta output.TableMeta, rows []assemble.Row) (string, error) {
	cfg := r.Config
	if cfg.Output == runutil.Stdin {
		return runutil.Stdin, emit(ctx, r.stdout, cfg.Format, meta, rows)
	}

	dst := runutil.OutputPath(cfg.Output, input, writers.Extension(cfg.Format))
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return dst, err
	}
	// write next to the target and rename so readers never see a partial table
	tmp, err := os.CreateTemp(cfg.Output, ".razor-*")
	if err != nil {
		return dst, err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	werr := emit(ctx, bw, cfg.Format, meta, rows)
	if werr == nil {
		werr = bw.Flush()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return dst, werr
	}
	return dst, os.Rename(tmp.Name(), dst)
}

func emit(ctx context.Context, w io.Writer, format string, meta output.TableMeta, rows []assemble.Row) error {
	in, done := writers.StartRowWriter(w, format, meta, 64)
	_, serr := cmdutil.Stream(ctx, rows, in)
	werr := <-done
	if werr != nil {
		return werr
	}
	return serr
}

func sortedReasons(m map[protein.DropReason]int) []protein.DropReason {
	out := make([]protein.DropReason, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Run processes every input under cfg.Path with one worker pool, then keeps
// watching the directory if cfg.Watch is set. A file that cannot be read is
// reported and skipped; the others still run.
func Run(
	parent context.Context,
	stdout, stderr io.Writer,
	cfg config.Config,
	clf classify.Classifier,
	log *logger.Logger,
	runID string,
) int {
	inputs, err := runutil.CollectInputs(cfg.Path)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitFailure
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool := pipeline.NewPool(cfg.Workers)
	defer pool.Close()
	log.Info("run %s: %d file(s), %d worker(s), max scan %d", runID, len(inputs), pool.Size(), cfg.MaxScan)

	outw := bufio.NewWriter(stdout)
	r := &Runner{
		Config:    cfg,
		RunID:     runID,
		Annotator: pipeline.Annotator{Classifier: clf, MaxScan: cfg.MaxScan, Pool: pool},
		Log:       log,
		Stderr:    stderr,
		stdout:    outw,
	}

	failed := 0
	files := progress.NewFiles(stderr, len(inputs), cfg.Quiet)
	for _, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		code, stop := r.handle(ctx, in, files.Next(filepath.Base(in)))
		if stop {
			return code
		}
		if code != ExitOK {
			failed++
		}
	}

	if cfg.Watch && ctx.Err() == nil {
		if code := r.watch(ctx, outw); code != ExitOK {
			return code
		}
	}

	if e := writers.IgnoreBrokenPipe(outw.Flush()); e != nil {
		cmdutil.Errorf(stderr, "%v", e)
		return ExitFailure
	}
	if ctx.Err() != nil {
		return ExitCanceled
	}
	if failed > 0 {
		return ExitFailure
	}
	return ExitOK
}

// handle processes one file. stop means the whole run must end with code.
func (r *Runner) handle(ctx context.Context, in, label string) (code int, stop bool) {
	rep, err := r.ProcessFile(ctx, in, label)
	switch {
	case err == nil:
		r.Log.Info("%s: wrote %d rows to %s", in, rep.Rows, rep.Output)
		return ExitOK, false
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return ExitCanceled, true
	case writers.IsBrokenPipe(err):
		return ExitOK, true
	}
	cmdutil.Errorf(r.Stderr, "%s: %v", in, err)
	return ExitFailure, false
}

func (r *Runner) watch(ctx context.Context, outw *bufio.Writer) int {
	dir := r.Config.Path
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	r.Log.Info("watching %s for new .fa files", dir)
	w := &watch.Watcher{
		Dir: dir,
		Handle: func(ctx context.Context, path string) {
			r.handle(ctx, path, filepath.Base(path))
			_ = outw.Flush()
		},
		OnError: func(err error) { cmdutil.Warnf(r.Stderr, r.Config.Quiet, "watch: %v", err) },
	}
	if err := w.Run(ctx); err != nil {
		cmdutil.Errorf(r.Stderr, "%v", err)
		return ExitFailure
	}
	return ExitOK
}

// Describe is a one-line summary of the resolved configuration.
func Describe(cfg config.Config) string {
	target := cfg.Classifier.Command
	if cfg.Classifier.URL != "" {
		target = cfg.Classifier.URL
	}
	return fmt.Sprintf("path=%s output=%s format=%s max_scan=%d ncores=%d classifier=%q cache=%q",
		cfg.Path, cfg.Output, cfg.Format, cfg.MaxScan, cfg.Workers, target, cfg.Cache)
}
