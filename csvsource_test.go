package csvdiff

import (
	"io"
	"strings"
	"testing"
)

func mustBufferedInput(t *testing.T, data string, hasHeaders bool, key []int) *CsvInput {
	t.Helper()
	in, err := NewBufferedInput(strings.NewReader(data), hasHeaders, key, ',')
	if err != nil {
		t.Fatalf("NewBufferedInput: %s", err)
	}
	return in
}

func TestRecordSourceLineNumbering(t *testing.T) {
	assert := newAsserter(t)

	in := mustBufferedInput(t, "id,name\n1,alice\n2,bob\n", true, []int{0})
	src := newRecordSource(in)

	header, line, _, err := src.next()
	assert(err == nil, "reading header: %v", err)
	assert(line == 1, "header must be line 1, got %d", line)
	assert(len(header) == 2, "header must have 2 fields, got %d", len(header))

	fields, line, _, err := src.next()
	assert(err == nil, "reading first data record: %v", err)
	assert(line == 2, "first data record must be line 2, got %d", line)
	assert(string(fields[0]) == "1", "expected id=1, got %s", fields[0])

	_, line, _, err = src.next()
	assert(err == nil, "reading second data record: %v", err)
	assert(line == 3, "second data record must be line 3, got %d", line)

	_, _, _, err = src.next()
	assert(err == io.EOF, "expected io.EOF at end of input, got %v", err)
}

func TestReadRawRecordAtIsExactSubstring(t *testing.T) {
	assert := newAsserter(t)

	data := "id,name\n1,alice\n2,bob\n"
	in := mustBufferedInput(t, data, true, []int{0})
	src := newRecordSource(in)

	_, _, _, err := src.next() // header
	assert(err == nil, "header: %v", err)

	_, _, offset, err := src.next() // "1,alice\n"
	assert(err == nil, "first record: %v", err)

	fields, raw, err := readRawRecordAt(in, offset)
	assert(err == nil, "readRawRecordAt: %v", err)
	assert(string(fields[0]) == "1" && string(fields[1]) == "alice", "unexpected fields: %v", fields)
	assert(strings.Contains(data, string(raw)), "raw bytes %q must be a substring of the original input", raw)
}

func TestRecordSourceHandlesEmptyInput(t *testing.T) {
	assert := newAsserter(t)

	in := mustBufferedInput(t, "", false, []int{0})
	src := newRecordSource(in)

	_, _, _, err := src.next()
	assert(err == io.EOF, "empty input must yield io.EOF immediately, got %v", err)
}
