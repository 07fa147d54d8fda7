// Package classify defines the per-sequence classifier contract and the
// adapters that reach an external classifier (subprocess, HTTP) plus a
// persistent cache in front of either.
package classify

import "context"

// Stage names an optional classifier stage whose fields may be zero-filled.
type Stage string

const (
	StageFungi Stage = "fungi"
	StageToxin Stage = "toxin"
)

// Bundle is the fixed-shape result for one sequence.
type Bundle struct {
	YScores            []float64 // per-position score
	Predictions        []int     // per-position signal-peptide call
	MaxCScores         []float64 // best cleavage score per category
	CandidateCleavages []int
	Cleavage           int // selected cleavage residue, 0 if none
	SPScore            float64

	FungiScores      []float64
	FungiPredictions []int
	FungiMedian      float64

	ToxinScores      []float64
	ToxinPredictions []int
	ToxinMedian      float64

	// Skipped lists optional stages that did not run. Their fields are zero.
	Skipped []Stage
}

// Degraded reports whether any optional stage was skipped.
func (b Bundle) Degraded() bool { return len(b.Skipped) > 0 }

// Skip zero-fills the fields of stage s and records it in Skipped.
func (b *Bundle) Skip(s Stage) {
	switch s {
	case StageFungi:
		b.FungiScores, b.FungiPredictions, b.FungiMedian = []float64{}, []int{}, 0
	case StageToxin:
		b.ToxinScores, b.ToxinPredictions, b.ToxinMedian = []float64{}, []int{}, 0
	default:
		return
	}
	for _, have := range b.Skipped {
		if have == s {
			return
		}
	}
	b.Skipped = append(b.Skipped, s)
}

// Classifier annotates one truncated sequence. Implementations must be safe
// for concurrent use and must not share per-call state.
type Classifier interface {
	Classify(ctx context.Context, seq string, maxScan int) (Bundle, error)
}

// Func adapts a plain function to Classifier.
type Func func(ctx context.Context, seq string, maxScan int) (Bundle, error)

func (f Func) Classify(ctx context.Context, seq string, maxScan int) (Bundle, error) {
	return f(ctx, seq, maxScan)
}
