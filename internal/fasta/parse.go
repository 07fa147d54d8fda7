// Package fasta splits multi-record FASTA text into raw (identifier, sequence)
// records. It does no residue-level interpretation; see package protein.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
)

// Marker starts every record.
const Marker = '>'

// RawRecord is one block of the input, exactly as read.
//   - ID is the text after the marker up to the first line break.
//   - Seq is the rest of the block with line breaks removed.
//   - HasSeq is false when the block has no line break at all.
type RawRecord struct {
	ID     string
	Seq    string
	HasSeq bool
}

// maxBlock bounds a single record; very long single-line proteins still fit.
const maxBlock = 64 * 1024 * 1024

// ReadFile opens path (file, .gz, or "-" for stdin) and parses every record.
// Any failure to open or read the input is reported as *MalformedInputError;
// cancellation is reported as ctx.Err().
func ReadFile(ctx context.Context, path string) ([]RawRecord, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Reason: "cannot open input", Err: err}
	}
	defer rc.Close()

	recs, err := Parse(ctx, rc)
	var me *MalformedInputError
	if errors.As(err, &me) && me.Path == "" {
		me.Path = path
	}
	return recs, err
}

// Parse reads r to the end and returns its records in input order.
// Non-blank text before the first marker becomes a leading record without a
// sequence. Input with no marker at all is malformed.
// No partial result is returned on error.
func Parse(ctx context.Context, r io.Reader) ([]RawRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxBlock)
	sc.Split(scanBlocks)

	var (
		recs     []RawRecord
		preamble = true
		sawData  bool
	)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		block := sc.Bytes()
		if bytes.IndexByte(block, 0) >= 0 {
			return nil, &MalformedInputError{Reason: "binary content (NUL byte)"}
		}
		if preamble {
			preamble = false
			if text := bytes.TrimSpace(block); len(text) > 0 {
				recs = append(recs, preambleRecord(text))
			}
			continue
		}
		sawData = true
		recs = append(recs, splitBlock(block))
	}
	if err := sc.Err(); err != nil {
		return nil, &MalformedInputError{Reason: "read failed", Err: err}
	}
	if !sawData {
		return nil, &MalformedInputError{Reason: "no records"}
	}
	return recs, nil
}

// preambleRecord turns text before the first marker into a record with no
// sequence, so it is counted and dropped like any other bad record.
func preambleRecord(text []byte) RawRecord {
	line, _, _ := bytes.Cut(text, []byte{'\n'})
	return RawRecord{ID: string(bytes.TrimSpace(line))}
}

// scanBlocks is a bufio.SplitFunc yielding the text between markers. The
// first token is whatever precedes the first marker (usually empty).
func scanBlocks(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, Marker); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func splitBlock(block []byte) RawRecord {
	header, body, ok := bytes.Cut(block, []byte{'\n'})
	rec := RawRecord{ID: string(bytes.TrimRight(header, "\r"))}
	if !ok {
		return rec
	}
	rec.HasSeq = true
	seq := make([]byte, 0, len(body))
	for _, c := range body {
		if c == '\n' || c == '\r' {
			continue
		}
		seq = append(seq, c)
	}
	rec.Seq = string(seq)
	return rec
}
