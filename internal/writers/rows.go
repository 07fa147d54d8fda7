package writers

import (
	"io"

	"razor/internal/assemble"
	"razor/internal/output"
)

// StartRowWriter spins up a writer goroutine for format. Send rows on the
// returned channel, close it, then read the single error result.
func StartRowWriter(out io.Writer, format string, meta output.TableMeta, bufSize int) (chan<- assemble.Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan assemble.Row, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := WriteRows(format, out, meta, in)
		// keep the sender from blocking if the writer bailed early
		for range in {
		}
		errCh <- err
	}()
	return in, errCh
}
