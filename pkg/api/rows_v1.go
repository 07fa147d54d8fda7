package api

// RowV1 is one output row. Annotation is nil when classification failed,
// in which case Error says why.
type RowV1 struct {
	Accession  string    `json:"accession"`
	Sequence   string    `json:"sequence"`
	Annotation *BundleV1 `json:"annotation,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// TableV1 is the document written by the "json" output format.
type TableV1 struct {
	RunID   string  `json:"run_id,omitempty"`
	Source  string  `json:"source"`
	MaxScan int     `json:"max_scan"`
	Total   int     `json:"total"`
	Dropped int     `json:"dropped"`
	Rows    []RowV1 `json:"rows"`
}
