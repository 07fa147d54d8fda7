// internal/output/json.go
package output

import (
	"io"

	"razor/internal/assemble"
	"razor/internal/classify"
	"razor/internal/jsonutil"
	"razor/pkg/api"
)

// TableMeta describes the file a table was produced from.
type TableMeta struct {
	RunID   string
	Source  string
	MaxScan int
	Total   int
	Dropped int
}

// ToAPIRow converts a row to the stable wire schema (v1).
func ToAPIRow(r assemble.Row) api.RowV1 {
	v := api.RowV1{Accession: r.ID, Sequence: r.Seq}
	if r.Failed() {
		v.Error = r.Err.Error()
		return v
	}
	b := classify.ToAPI(classify.Bundle{
		YScores:            r.YScore,
		Predictions:        r.SPPrediction,
		MaxCScores:         r.MaxC,
		CandidateCleavages: r.ProbableCleavages,
		Cleavage:           r.Cleavage,
		SPScore:            r.SPScore,
		FungiScores:        r.FungiScores,
		FungiPredictions:   r.FungiPrediction,
		FungiMedian:        r.FungiMedian,
		ToxinScores:        r.ToxinScores,
		ToxinPredictions:   r.ToxinPrediction,
		ToxinMedian:        r.ToxinMedian,
		Skipped:            r.Skipped,
	})
	v.Annotation = &b
	return v
}

// ToAPITable wraps rows with their file metadata.
func ToAPITable(meta TableMeta, rows []assemble.Row) api.TableV1 {
	t := api.TableV1{
		RunID:   meta.RunID,
		Source:  meta.Source,
		MaxScan: meta.MaxScan,
		Total:   meta.Total,
		Dropped: meta.Dropped,
		Rows:    make([]api.RowV1, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, ToAPIRow(r))
	}
	return t
}

// WriteJSON writes a single pretty-indented v1 table.
func WriteJSON(w io.Writer, meta TableMeta, rows []assemble.Row) error {
	return jsonutil.EncodePretty(w, ToAPITable(meta, rows))
}
