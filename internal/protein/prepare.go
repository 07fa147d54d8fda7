package protein

import (
	"context"

	"razor/internal/fasta"
)

// Record is a sequence ready for classification.
// Index is the record's position among all records read from its file.
type Record struct {
	Index int
	ID    string
	Seq   string
}

// DropReason says why a record was excluded.
type DropReason string

const (
	DropNoID     DropReason = "missing identifier"
	DropNoSeq    DropReason = "missing sequence"
	DropEmpty    DropReason = "empty sequence"
	DropNone     DropReason = "sequence is NONE"
	DropAlphabet DropReason = "non-standard residue"
)

// Batch is the validated content of one input.
type Batch struct {
	Records []Record
	Total   int // records read
	Dropped int // Total - len(Records)
	Drops   map[DropReason]int
}

// Prepare normalizes every raw record and keeps the admissible ones in input
// order. Callers must report Dropped; it is never logged here.
func Prepare(raw []fasta.RawRecord, maxScan int) Batch {
	b := Batch{
		Records: make([]Record, 0, len(raw)),
		Total:   len(raw),
		Drops:   map[DropReason]int{},
	}
	for i, r := range raw {
		seq := Normalize(r.Seq, maxScan)
		if reason, ok := check(r, seq); !ok {
			b.Drops[reason]++
			continue
		}
		b.Records = append(b.Records, Record{Index: i, ID: r.ID, Seq: seq})
	}
	b.Dropped = b.Total - len(b.Records)
	return b
}

func check(r fasta.RawRecord, seq string) (DropReason, bool) {
	switch {
	case r.ID == "":
		return DropNoID, false
	case !r.HasSeq:
		return DropNoSeq, false
	case seq == "":
		return DropEmpty, false
	case seq == "NONE":
		return DropNone, false
	case !Admissible(seq):
		return DropAlphabet, false
	}
	return "", true
}

// ParseFile reads path and prepares its records. A *fasta.MalformedInputError
// aborts the file before any record is returned.
func ParseFile(ctx context.Context, path string, maxScan int) (Batch, error) {
	raw, err := fasta.ReadFile(ctx, path)
	if err != nil {
		return Batch{}, err
	}
	return Prepare(raw, maxScan), nil
}
