// resolver.go -- byte-exact resolver for suspected Modify pairs
//
// Grounded directly on the teacher's dbreader.go:decodeRecord -- seek to a
// known byte offset, read exactly one record, and reason about its
// contents. Here the "reasoning" is a column-by-column byte comparison
// instead of a checksum check, and the record being validated is one half
// of a suspected Modify rather than a single DB lookup result.

package csvdiff

import "bytes"

// resolveModify re-reads the original bytes for a suspected Modify pair
// (matching key hash, differing value hash) and decides what really
// happened. It returns a Modify DiffRecord when the records genuinely
// differ, nil with reinsert=false when the bytes prove equal (a value-hash
// collision), or nil with reinsert=true when even the key columns differ
// (a key-hash collision): in that case the two entries are not a match at
// all and must be treated as independent records again.
func resolveModify(leftIn, rightIn *CsvInput, leftEntry, rightEntry IndexEntry) (rec *DiffRecord, reinsert bool, err error) {
	leftFields, leftRaw, err := readRawRecordAt(leftIn, leftEntry.ByteOffset)
	if err != nil {
		return nil, false, err
	}

	rightFields, rightRaw, err := readRawRecordAt(rightIn, rightEntry.ByteOffset)
	if err != nil {
		return nil, false, err
	}

	isKey := make(map[int]bool, len(leftIn.PrimaryKey))
	for _, k := range leftIn.PrimaryKey {
		isKey[k] = true
	}

	n := len(leftFields)
	if len(rightFields) > n {
		n = len(rightFields)
	}

	var diffs []int
	for i := 0; i < n; i++ {
		var lf, rf []byte
		if i < len(leftFields) {
			lf = leftFields[i]
		}
		if i < len(rightFields) {
			rf = rightFields[i]
		}

		if bytes.Equal(lf, rf) {
			continue
		}

		if isKey[i] {
			// Key columns matched by hash but differ byte-for-byte: a
			// true key-hash collision. These are not the same record.
			return nil, true, nil
		}

		diffs = append(diffs, i)
	}

	if len(diffs) == 0 {
		// value_hash collision: bytes prove the non-key columns equal.
		return nil, false, nil
	}

	return &DiffRecord{
		Kind:         KindModify,
		DeleteRecord: &Record{Fields: leftFields, Raw: leftRaw, Line: leftEntry.Line},
		AddRecord:    &Record{Fields: rightFields, Raw: rightRaw, Line: rightEntry.Line},
		LineLeft:     leftEntry.Line,
		LineRight:    rightEntry.Line,
		FieldIndices: diffs,
	}, false, nil
}
