// csvsource.go -- thin wrapper over encoding/csv that yields records with
// their line number and byte offset.
//
// This is the "CSV reader that yields records with line/byte position"
// that the outer spec treats as an external collaborator: the hard parts
// of CSV tokenization (quoting, embedded newlines, delimiters) are left
// entirely to encoding/csv. We only add offset bookkeeping, using
// encoding/csv.Reader's own InputOffset(), so the result is exact
// regardless of how far the underlying bufio.Reader reads ahead.

package csvdiff

import (
	"bytes"
	"encoding/csv"
	"io"
)

// recordSource reads successive CSV records from a section of a CsvInput,
// reporting the line number and starting byte offset of each.
type recordSource struct {
	cr       *csv.Reader
	base     int64 // offset within the underlying input that this section starts at
	line     uint64
	lastOff  int64 // InputOffset() after the previous record, relative to this section
}

// newRecordSource builds a recordSource over the whole of in, starting
// line numbering at 1. If in.HasHeaders, the caller must consume one
// record (the header) before treating subsequent records as data; doing
// so naturally makes the first data record line 2, matching the spec.
func newRecordSource(in *CsvInput) *recordSource {
	sr := io.NewSectionReader(in.ReaderAt, 0, in.Size)
	cr := csv.NewReader(sr)
	cr.Comma = in.Comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	return &recordSource{cr: cr, base: 0, line: 1}
}

// next reads one record, returning its fields, its line number and its
// absolute byte offset (within the original input, not the section). It
// returns io.EOF when the section is exhausted.
func (s *recordSource) next() (fields [][]byte, line uint64, offset int64, err error) {
	startOff := s.lastOff

	rec, err := s.cr.Read()
	if err != nil {
		return nil, 0, 0, err
	}

	s.lastOff = s.cr.InputOffset()
	out := make([][]byte, len(rec))
	for i, f := range rec {
		out[i] = []byte(f)
	}

	line = s.line
	s.line++
	return out, line, s.base + startOff, nil
}

// readRawRecordAt seeks to byteOffset within in and reads exactly one CSV
// record, returning both its decoded fields and the exact original bytes
// it occupies (a substring of the input). This is the "seek and re-read"
// half of the Byte-Exact Resolver.
func readRawRecordAt(in *CsvInput, byteOffset int64) (fields [][]byte, raw []byte, err error) {
	sr := io.NewSectionReader(in.ReaderAt, byteOffset, in.Size-byteOffset)

	var captured bytes.Buffer
	tee := io.TeeReader(sr, &captured)

	cr := csv.NewReader(tee)
	cr.Comma = in.Comma
	cr.FieldsPerRecord = -1

	rec, err := cr.Read()
	if err != nil {
		return nil, nil, err
	}

	consumed := cr.InputOffset()
	raw = append([]byte(nil), captured.Bytes()[:consumed]...)

	out := make([][]byte, len(rec))
	for i, f := range rec {
		out[i] = []byte(f)
	}

	return out, raw, nil
}
