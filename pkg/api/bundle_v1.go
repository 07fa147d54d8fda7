// Package api holds the stable JSON wire schemas shared with external
// classifiers and with JSON/JSONL consumers of the output.
package api

// RequestV1 is sent to a classifier for one sequence.
type RequestV1 struct {
	Sequence string `json:"sequence"`
	MaxScan  int    `json:"max_scan"`
}

// BundleV1 is the classifier's answer for one sequence.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type BundleV1 struct {
	YScores            []float64 `json:"y_scores"`
	Predictions        []int     `json:"predictions"`
	MaxCScores         []float64 `json:"max_c_scores"`
	CandidateCleavages []int     `json:"candidate_cleavages"`
	Cleavage           int       `json:"cleavage"`
	SPScore            float64   `json:"sp_score"`

	FungiScores      []float64 `json:"fungi_scores"`
	FungiPredictions []int     `json:"fungi_predictions"`
	FungiMedian      float64   `json:"fungi_median"`

	ToxinScores      []float64 `json:"toxin_scores"`
	ToxinPredictions []int     `json:"toxin_predictions"`
	ToxinMedian      float64   `json:"toxin_median"`

	// SkippedStages names optional stages ("fungi", "toxin") that did not run.
	SkippedStages []string `json:"skipped_stages,omitempty"`
}
