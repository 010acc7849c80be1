package csvdiff

import "testing"

// scanOffsets returns the byte offset of every data record in in (header,
// if any, already skipped), in file order.
func scanOffsets(t *testing.T, in *CsvInput) []int64 {
	t.Helper()
	src := newRecordSource(in)
	if in.HasHeaders {
		if _, _, _, err := src.next(); err != nil {
			t.Fatalf("skipping header: %s", err)
		}
	}

	var offsets []int64
	for {
		_, _, off, err := src.next()
		if err != nil {
			break
		}
		offsets = append(offsets, off)
	}
	return offsets
}

func TestResolveModifyDetectsRealModify(t *testing.T) {
	assert := newAsserter(t)

	left := mustBufferedInput(t, "id,name,age\n1,alice,30\n", true, []int{0})
	right := mustBufferedInput(t, "id,name,age\n1,alice,31\n", true, []int{0})

	leftOffsets := scanOffsets(t, left)
	rightOffsets := scanOffsets(t, right)

	leftEntry := IndexEntry{ByteOffset: leftOffsets[0], Line: 2}
	rightEntry := IndexEntry{ByteOffset: rightOffsets[0], Line: 2}

	rec, reinsert, err := resolveModify(left, right, leftEntry, rightEntry)
	assert(err == nil, "resolveModify: %s", err)
	assert(!reinsert, "genuine modify must not be reported as a key-hash collision")
	assert(rec != nil, "genuine modify must produce a DiffRecord")
	assert(len(rec.FieldIndices) == 1 && rec.FieldIndices[0] == 2,
		"expected only column 2 (age) to differ, got %v", rec.FieldIndices)
}

func TestResolveModifyDetectsValueHashCollision(t *testing.T) {
	assert := newAsserter(t)

	left := mustBufferedInput(t, "id,name\n1,alice\n", true, []int{0})
	right := mustBufferedInput(t, "id,name\n1,alice\n", true, []int{0})

	leftOffsets := scanOffsets(t, left)
	rightOffsets := scanOffsets(t, right)

	leftEntry := IndexEntry{ByteOffset: leftOffsets[0], Line: 2}
	rightEntry := IndexEntry{ByteOffset: rightOffsets[0], Line: 2}

	rec, reinsert, err := resolveModify(left, right, leftEntry, rightEntry)
	assert(err == nil, "resolveModify: %s", err)
	assert(!reinsert, "identical bytes must not be treated as a key collision")
	assert(rec == nil, "identical bytes must produce no diff record")
}

func TestResolveModifyDetectsKeyHashCollision(t *testing.T) {
	assert := newAsserter(t)

	// Different keys that happen to share a key-hash in this synthetic
	// test by construction: we call resolveModify directly with entries
	// carrying different-looking rows so the byte comparison on the key
	// column (0) finds a real difference despite matching hashes.
	left := mustBufferedInput(t, "id,name\nAAA,alice\n", true, []int{0})
	right := mustBufferedInput(t, "id,name\nZZZ,alice\n", true, []int{0})

	leftOffsets := scanOffsets(t, left)
	rightOffsets := scanOffsets(t, right)

	leftEntry := IndexEntry{ByteOffset: leftOffsets[0], Line: 2}
	rightEntry := IndexEntry{ByteOffset: rightOffsets[0], Line: 2}

	rec, reinsert, err := resolveModify(left, right, leftEntry, rightEntry)
	assert(err == nil, "resolveModify: %s", err)
	assert(reinsert, "differing key columns must be reported as a key-hash collision")
	assert(rec == nil, "a key-hash collision must not produce a Modify record")
}
