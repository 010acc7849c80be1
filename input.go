package csvdiff

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// CsvInput is one side of a diff: a seekable byte source containing
// RFC-4180-style CSV, plus the configuration a caller supplies per side.
//
// ReaderAt must support concurrent callers: the producer's sequential scan
// and the matcher's on-demand rereads (via the Byte-Exact Resolver) both
// read from it independently, at the same time, for the same input.
type CsvInput struct {
	ReaderAt   io.ReaderAt
	Size       int64
	HasHeaders bool
	PrimaryKey []int
	Comma      rune

	closer func() error
}

// Close releases any resource the input constructor opened (a file
// descriptor, a memory mapping). It is safe to call on a CsvInput that
// owns nothing.
func (in *CsvInput) Close() error {
	if in.closer == nil {
		return nil
	}
	err := in.closer()
	in.closer = nil
	return err
}

func newCsvInput(r io.ReaderAt, size int64, hasHeaders bool, primaryKey []int, comma rune, closer func() error) *CsvInput {
	if len(primaryKey) == 0 {
		primaryKey = []int{0}
	}
	if comma == 0 {
		comma = ','
	}
	return &CsvInput{
		ReaderAt:   r,
		Size:       size,
		HasHeaders: hasHeaders,
		PrimaryKey: primaryKey,
		Comma:      comma,
		closer:     closer,
	}
}

// NewFileInput opens fn and returns a CsvInput backed by it, using
// *os.File.ReadAt for positional, concurrency-safe rereads. primaryKey may
// be nil, defaulting to column 0; comma may be 0, defaulting to ','.
//
// fn must name a regular file: ReadAt on a pipe or other non-seekable
// special file fails unpredictably partway through a diff instead of up
// front, so NewFileInput rejects them immediately with ErrNotSeekable.
// Use NewBufferedInput for a non-seekable source instead.
func NewFileInput(fn string, hasHeaders bool, primaryKey []int, comma rune) (*CsvInput, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	st, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("%s: can't stat: %w", fn, err)
	}

	if !st.Mode().IsRegular() {
		fd.Close()
		return nil, fmt.Errorf("%s: %w", fn, ErrNotSeekable)
	}

	return newCsvInput(fd, st.Size(), hasHeaders, primaryKey, comma, fd.Close), nil
}

// NewBufferedInput buffers all of r into memory and returns a CsvInput
// over it. Use this for non-seekable sources (e.g. a network stream):
// the engine requires positional rereads, so anything that isn't already
// an io.ReaderAt must be buffered first.
func NewBufferedInput(r io.Reader, hasHeaders bool, primaryKey []int, comma rune) (*CsvInput, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	br := bytes.NewReader(buf)
	return newCsvInput(br, int64(len(buf)), hasHeaders, primaryKey, comma, nil), nil
}
