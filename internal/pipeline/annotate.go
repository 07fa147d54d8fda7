// internal/pipeline/annotate.go
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"razor/internal/classify"
	"razor/internal/protein"
)

// Result is the outcome for the record at slot Index of the Annotate input.
// Err is non-nil when the classifier failed for this record only.
type Result struct {
	Index  int
	ID     string
	Bundle classify.Bundle
	Err    error
}

// Failed reports whether the slot holds a failure marker instead of a bundle.
func (r Result) Failed() bool { return r.Err != nil }

// ProgressFunc receives (completed, total) after every finished record.
// Calls come from a single goroutine.
type ProgressFunc func(done, total int)

// Annotator applies Classifier to records with a fixed MaxScan.
// A nil or single-worker Pool runs sequentially in input order.
type Annotator struct {
	Classifier classify.Classifier
	MaxScan    int
	Pool       *Pool
	Progress   ProgressFunc
}

// Annotate returns exactly one Result per record, in record order.
// Classifier failures and panics stay in their slot; the returned error is
// only ever the context's, in which case unfinished slots carry it too.
func (a Annotator) Annotate(ctx context.Context, recs []protein.Record) ([]Result, error) {
	results := make([]Result, len(recs))
	if len(recs) == 0 {
		return results, ctx.Err()
	}
	if a.Pool.Size() <= 1 {
		a.sequential(ctx, recs, results)
	} else {
		a.parallel(ctx, recs, results)
	}
	return results, ctx.Err()
}

func (a Annotator) sequential(ctx context.Context, recs []protein.Record, results []Result) {
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(recs); j++ {
				results[j] = Result{Index: j, ID: recs[j].ID, Err: err}
			}
			return
		}
		results[i] = a.call(ctx, i, rec)
		a.progress(i+1, len(recs))
	}
}

func (a Annotator) parallel(ctx context.Context, recs []protein.Record, results []Result) {
	out := make(chan Result, len(recs))

	// Gather: the only writer of results.
	gathered := make(chan struct{})
	go func() {
		defer close(gathered)
		done := 0
		for r := range out {
			results[r.Index] = r
			done++
			a.progress(done, len(recs))
		}
	}()

	var (
		wg        sync.WaitGroup
		submitted int
		subErr    error
	)
	for i, rec := range recs {
		wg.Add(1)
		err := a.Pool.Submit(ctx, func() {
			defer wg.Done()
			out <- a.call(ctx, i, rec)
		})
		if err != nil {
			wg.Done()
			subErr = err
			break
		}
		submitted++
	}
	wg.Wait()
	close(out)
	<-gathered

	for j := submitted; j < len(recs); j++ {
		results[j] = Result{Index: j, ID: recs[j].ID, Err: subErr}
	}
}

// call runs the classifier once; a panic becomes this record's failure.
func (a Annotator) call(ctx context.Context, i int, rec protein.Record) (res Result) {
	res = Result{Index: i, ID: rec.ID}
	defer func() {
		if v := recover(); v != nil {
			res.Bundle = classify.Bundle{}
			res.Err = &classify.Error{Op: "panic", Err: fmt.Errorf("%v", v)}
		}
	}()
	b, err := a.Classifier.Classify(ctx, rec.Seq, a.MaxScan)
	if err != nil {
		res.Err = classify.AsError("call", err)
		return res
	}
	res.Bundle = b
	return res
}

func (a Annotator) progress(done, total int) {
	if a.Progress != nil {
		a.Progress(done, total)
	}
}
