package fasta

import "fmt"

// MalformedInputError means a file could not be parsed into records at all.
// It is fatal for that file only.
type MalformedInputError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	p := e.Path
	if p == "" {
		p = "input"
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed FASTA %s: %s: %v", p, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed FASTA %s: %s", p, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
