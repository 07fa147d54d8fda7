// Package assemble joins classifier results back onto their records and
// unpacks each bundle into the output columns.
package assemble

import (
	"errors"
	"fmt"
	"math"

	"razor/internal/classify"
	"razor/internal/pipeline"
	"razor/internal/protein"
)

// ErrMisaligned means results do not line up one-to-one with records.
var ErrMisaligned = errors.New("results misaligned with records")

// Row is one output line. When Err is set the annotation fields are zero and
// writers emit the NA sentinel for them.
type Row struct {
	ID  string
	Seq string

	YScore            []float64
	SPPrediction      []int
	MaxC              []float64
	ProbableCleavages []int
	Cleavage          int
	SPScore           float64
	FungiScores       []float64
	FungiPrediction   []int
	FungiMedian       float64
	ToxinScores       []float64
	ToxinPrediction   []int
	ToxinMedian       float64

	Skipped []classify.Stage
	Err     error
}

// Failed reports whether the classifier failed for this row.
func (r Row) Failed() bool { return r.Err != nil }

// Degraded reports whether optional stages were zero-filled.
func (r Row) Degraded() bool { return len(r.Skipped) > 0 }

// Rows pairs recs[i] with results[i]. Index and identifier must match slot
// for slot; anything else is ErrMisaligned and no rows are returned.
func Rows(recs []protein.Record, results []pipeline.Result) ([]Row, error) {
	if len(recs) != len(results) {
		return nil, fmt.Errorf("%w: %d records, %d results", ErrMisaligned, len(recs), len(results))
	}
	rows := make([]Row, len(recs))
	for i, rec := range recs {
		res := results[i]
		if res.Index != i || res.ID != rec.ID {
			return nil, fmt.Errorf("%w: slot %d holds result %d (%q) for record %q",
				ErrMisaligned, i, res.Index, res.ID, rec.ID)
		}
		rows[i] = unpack(rec, res)
	}
	return rows, nil
}

func unpack(rec protein.Record, res pipeline.Result) Row {
	row := Row{ID: rec.ID, Seq: rec.Seq}
	if res.Err != nil {
		row.Err = res.Err
		return row
	}
	b := res.Bundle
	row.YScore = roundAll(b.YScores)
	row.SPPrediction = b.Predictions
	row.MaxC = b.MaxCScores
	row.ProbableCleavages = b.CandidateCleavages
	row.Cleavage = b.Cleavage
	row.SPScore = Round2(b.SPScore)
	row.FungiScores = b.FungiScores
	row.FungiPrediction = b.FungiPredictions
	row.FungiMedian = b.FungiMedian
	row.ToxinScores = b.ToxinScores
	row.ToxinPrediction = b.ToxinPredictions
	row.ToxinMedian = b.ToxinMedian
	row.Skipped = b.Skipped
	return row
}

// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Round(x*100) / 100
}

func roundAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Round2(x)
	}
	return out
}

// Counts tallies failed and degraded rows.
func Counts(rows []Row) (failed, degraded int) {
	for _, r := range rows {
		switch {
		case r.Failed():
			failed++
		case r.Degraded():
			degraded++
		}
	}
	return failed, degraded
}
