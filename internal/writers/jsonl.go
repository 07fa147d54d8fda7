// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"razor/internal/assemble"
	"razor/internal/jsonlutil"
	"razor/internal/output"
)

// StartRowJSONLWriter streams each row as one api.RowV1 JSON line.
func StartRowJSONLWriter(out io.Writer, bufSize int) (chan<- assemble.Row, <-chan error) {
	return jsonlutil.Start[assemble.Row](out, bufSize,
		func(enc *json.Encoder, r assemble.Row) error {
			return enc.Encode(output.ToAPIRow(r))
		},
		IsBrokenPipe,
	)
}
