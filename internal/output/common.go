package output

import "strings"

// Output formats accepted by --format.
const (
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// NA fills every annotation column of a row whose classification failed.
const NA = "NA"

// Columns is the canonical header, in order. All TSV writers use it.
var Columns = []string{
	"Accession",
	"Sequence",
	"Y_score",
	"SP_Prediction",
	"Max_C",
	"Probable Cleavage after",
	"Cleavage after residue",
	"SP_score",
	"Fungi_Scores",
	"Fungi_Prediction",
	"Fungi_scores_Median",
	"Toxin_Scores",
	"Toxin_Prediction",
	"Toxin_scores_Median",
}

// TSVHeader is Columns joined for callers that need the raw line.
var TSVHeader = strings.Join(Columns, "\t")
