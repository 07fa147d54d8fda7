package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"razor/internal/jsonutil"
	"razor/pkg/api"
)

// ToAPI converts a Bundle to its wire form.
func ToAPI(b Bundle) api.BundleV1 {
	v := api.BundleV1{
		YScores:            nonNilF(b.YScores),
		Predictions:        nonNilI(b.Predictions),
		MaxCScores:         nonNilF(b.MaxCScores),
		CandidateCleavages: nonNilI(b.CandidateCleavages),
		Cleavage:           b.Cleavage,
		SPScore:            b.SPScore,
		FungiScores:        nonNilF(b.FungiScores),
		FungiPredictions:   nonNilI(b.FungiPredictions),
		FungiMedian:        b.FungiMedian,
		ToxinScores:        nonNilF(b.ToxinScores),
		ToxinPredictions:   nonNilI(b.ToxinPredictions),
		ToxinMedian:        b.ToxinMedian,
	}
	for _, s := range b.Skipped {
		v.SkippedStages = append(v.SkippedStages, string(s))
	}
	return v
}

// FromAPI converts a wire bundle, zero-filling skipped stages. Unknown stage
// names are rejected so a typo cannot silently drop a stage.
func FromAPI(v api.BundleV1) (Bundle, error) {
	b := Bundle{
		YScores:            nonNilF(v.YScores),
		Predictions:        nonNilI(v.Predictions),
		MaxCScores:         nonNilF(v.MaxCScores),
		CandidateCleavages: nonNilI(v.CandidateCleavages),
		Cleavage:           v.Cleavage,
		SPScore:            v.SPScore,
		FungiScores:        nonNilF(v.FungiScores),
		FungiPredictions:   nonNilI(v.FungiPredictions),
		FungiMedian:        v.FungiMedian,
		ToxinScores:        nonNilF(v.ToxinScores),
		ToxinPredictions:   nonNilI(v.ToxinPredictions),
		ToxinMedian:        v.ToxinMedian,
	}
	for _, name := range v.SkippedStages {
		s := Stage(name)
		if s != StageFungi && s != StageToxin {
			return Bundle{}, fmt.Errorf("unknown skipped stage %q", name)
		}
		b.Skip(s)
	}
	return b, nil
}

// Decode parses one JSON BundleV1 document.
func Decode(data []byte) (Bundle, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Bundle{}, &Error{Op: "decode", Err: errors.New("empty response")}
	}
	var v api.BundleV1
	if err := jsonutil.DecodeOne(bytes.NewReader(data), &v); err != nil {
		return Bundle{}, &Error{Op: "decode", Err: err}
	}
	b, err := FromAPI(v)
	if err != nil {
		return Bundle{}, &Error{Op: "decode", Err: err}
	}
	return b, nil
}

// Encode is the inverse of Decode.
func Encode(b Bundle) ([]byte, error) { return json.Marshal(ToAPI(b)) }

func nonNilF(a []float64) []float64 {
	if len(a) == 0 {
		return []float64{}
	}
	return append([]float64(nil), a...)
}

func nonNilI(a []int) []int {
	if len(a) == 0 {
		return []int{}
	}
	return append([]int(nil), a...)
}
