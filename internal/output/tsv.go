// internal/output/tsv.go
package output

import (
	"bufio"
	"io"
	"strings"

	"razor/internal/assemble"
)

// tsvWriter quotes a cell only when it holds a tab, a quote or a line break.
// Leading and trailing spaces are written as is.
type tsvWriter struct {
	bw *bufio.Writer
}

func newTSV(w io.Writer) *tsvWriter { return &tsvWriter{bw: bufio.NewWriter(w)} }

func needsQuote(cell string) bool {
	return strings.ContainsAny(cell, "\t\"\n\r")
}

func (t *tsvWriter) Write(cells []string) error {
	for i, c := range cells {
		if i > 0 {
			t.bw.WriteByte('\t')
		}
		if !needsQuote(c) {
			t.bw.WriteString(c)
			continue
		}
		t.bw.WriteByte('"')
		t.bw.WriteString(strings.ReplaceAll(c, `"`, `""`))
		t.bw.WriteByte('"')
	}
	// bufio.Writer keeps the first error; it surfaces here or on Flush.
	_, err := t.bw.WriteString("\n")
	return err
}

func (t *tsvWriter) Flush() error { return t.bw.Flush() }

// WriteTSV writes the header and one line per row.
func WriteTSV(w io.Writer, rows []assemble.Row) error {
	tw := newTSV(w)
	if err := tw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tw.Write(FormatRow(r)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// StreamTSV writes the header, then rows as they arrive on in.
// The header is written even when in yields nothing.
func StreamTSV(w io.Writer, in <-chan assemble.Row) error {
	tw := newTSV(w)
	if err := tw.Write(Columns); err != nil {
		return err
	}
	for r := range in {
		if err := tw.Write(FormatRow(r)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
