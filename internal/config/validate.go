package config

import (
	"fmt"
	"strings"

	"razor/internal/output"
	"razor/internal/protein"
)

// Error is a rejected configuration value. Runs stop before any I/O.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg) }

var formats = []string{output.FormatTSV, output.FormatJSON, output.FormatJSONL}

// Validate returns the first problem found as *Error, or nil.
func Validate(c Config) error {
	switch {
	case c.Path == "":
		return &Error{Field: "path", Msg: "a FASTA file or directory is required (--path)"}
	case c.MaxScan < protein.MinMaxScan:
		return &Error{Field: "max_scan", Msg: fmt.Sprintf("Max scan should be greater than %d.", protein.MinMaxScan)}
	case c.Workers < 1:
		return &Error{Field: "ncores", Msg: "must be at least 1"}
	case !validFormat(c.Format):
		return &Error{Field: "format", Msg: fmt.Sprintf("%q is not one of %s", c.Format, strings.Join(formats, ", "))}
	case c.Output == "":
		return &Error{Field: "output", Msg: "must not be empty"}
	}

	cl := c.Classifier
	switch {
	case cl.Command == "" && cl.URL == "":
		return &Error{Field: "classifier", Msg: "set one of --classifier-cmd or --classifier-url"}
	case cl.Command != "" && cl.URL != "":
		return &Error{Field: "classifier", Msg: "--classifier-cmd and --classifier-url are mutually exclusive"}
	case cl.Rate < 0:
		return &Error{Field: "rate", Msg: "must be >= 0"}
	case cl.Burst < 0:
		return &Error{Field: "burst", Msg: "must be >= 0"}
	case cl.Timeout < 0:
		return &Error{Field: "timeout", Msg: "must be >= 0"}
	}

	if c.Watch && c.Path == "-" {
		return &Error{Field: "watch", Msg: "cannot watch standard input"}
	}
	return nil
}

func validFormat(f string) bool {
	for _, ok := range formats {
		if f == ok {
			return true
		}
	}
	return false
}
