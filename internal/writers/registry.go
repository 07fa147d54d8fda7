// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"razor/internal/assemble"
	"razor/internal/output"
)

// RowWriterFunc drains in and writes it to w in one format.
type RowWriterFunc func(w io.Writer, meta output.TableMeta, in <-chan assemble.Row) error

type entry struct {
	ext   string
	write RowWriterFunc
}

// Row writer registry (format → handler). Register from init blocks.
var rowWriters = map[string]entry{}

// Register adds or replaces the writer for format; ext is the output file
// extension including the dot.
func Register(format, ext string, fn RowWriterFunc) {
	rowWriters[format] = entry{ext: ext, write: fn}
}

// Valid reports whether format has a registered writer.
func Valid(format string) bool {
	_, ok := rowWriters[format]
	return ok
}

// Extension returns the file extension for format, or "" if unknown.
func Extension(format string) string {
	return rowWriters[format].ext
}

// Formats lists registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(rowWriters))
	for f := range rowWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteRows dispatches to the writer registered for format.
func WriteRows(format string, w io.Writer, meta output.TableMeta, in <-chan assemble.Row) error {
	e, ok := rowWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return e.write(w, meta, in)
}

func init() {
	// TSV streams; the header goes first even for an empty file.
	Register(output.FormatTSV, ".csv", func(w io.Writer, _ output.TableMeta, in <-chan assemble.Row) error {
		return output.StreamTSV(w, in)
	})

	// JSON array needs every row before it can write the document.
	Register(output.FormatJSON, ".json", func(w io.Writer, meta output.TableMeta, in <-chan assemble.Row) error {
		var rows []assemble.Row
		for r := range in {
			rows = append(rows, r)
		}
		return output.WriteJSON(w, meta, rows)
	})

	Register(output.FormatJSONL, ".jsonl", func(w io.Writer, _ output.TableMeta, in <-chan assemble.Row) error {
		pipe, done := StartRowJSONLWriter(w, 64)
		for r := range in {
			pipe <- r
		}
		close(pipe)
		return <-done
	})
}
