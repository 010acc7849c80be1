// diff.go -- materialized diff result
//
// The sort helpers below play the role the outer spec calls "the sorting
// utilities applied to the result set after the diff completes" -- an
// external collaborator there, but narrow enough (two named sorts over a
// slice already in memory) that there is no reason to push it behind an
// interface; two slice types (byLine, byColumns) implement sort.Interface, the same
// way the teacher's own hash package defined sortByteSlices for exactly
// this purpose.

package csvdiff

import (
	"bytes"
	"sort"
)

// DiffResult is the ordered, fully-populated outcome of a materialized
// diff. Records are unsorted on arrival (matches and arrivals from the
// two sides interleave non-deterministically); call SortByLine or
// SortByColumns to impose an order.
type DiffResult struct {
	records []DiffRecord
}

// Records returns the current slice of DiffRecords, in whatever order the
// result is currently in.
func (r *DiffResult) Records() []DiffRecord {
	return r.records
}

// Len returns the number of DiffRecords in the result.
func (r *DiffResult) Len() int {
	return len(r.records)
}

// HasModifications reports whether any record in the result is a Modify.
func (r *DiffResult) HasModifications() bool {
	for _, rec := range r.records {
		if rec.Kind == KindModify {
			return true
		}
	}
	return false
}

// SortByLine sorts records ascending by line number, breaking ties with
// Delete < Modify < Add.
func (r *DiffResult) SortByLine() {
	sort.Stable(byLine(r.records))
}

type byLine []DiffRecord

func (b byLine) Len() int { return len(b) }

func (b byLine) Less(i, j int) bool {
	li, lj := lineOf(b[i]), lineOf(b[j])
	if li != lj {
		return li < lj
	}
	return kindRank(b[i].Kind) < kindRank(b[j].Kind)
}

func (b byLine) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

// lineOf returns the line used for ordering: the single line for
// Add/Delete, or the left-side line for Modify (matching the convention
// that Modify compares using the delete-side record).
func lineOf(r DiffRecord) uint64 {
	if r.Kind == KindModify {
		return r.LineLeft
	}
	return r.Line
}

func kindRank(k DiffKind) int {
	switch k {
	case KindDelete:
		return 0
	case KindModify:
		return 1
	default: // KindAdd
		return 2
	}
}

// SortByColumns sorts records by a stable lexicographic comparison of the
// raw bytes at cols, in order: ties at cols[0] break at cols[1], and so
// on. For Modify records the comparison uses the delete-side record. It
// returns ErrColumnOutOfRange (the result itself is left unsorted but
// otherwise valid) if any column index exceeds a compared record's column
// count.
func (r *DiffResult) SortByColumns(cols []int) error {
	s := byColumns{records: r.records, cols: cols}
	if err := s.validate(); err != nil {
		return err
	}
	sort.Stable(s)
	return nil
}

type byColumns struct {
	records []DiffRecord
	cols    []int
}

func (b byColumns) Len() int { return len(b.records) }

func (b byColumns) Swap(i, j int) { b.records[i], b.records[j] = b.records[j], b.records[i] }

func (b byColumns) Less(i, j int) bool {
	ri := compareRecord(b.records[i])
	rj := compareRecord(b.records[j])

	for _, c := range b.cols {
		var fi, fj []byte
		if c < len(ri.Fields) {
			fi = ri.Fields[c]
		}
		if c < len(rj.Fields) {
			fj = rj.Fields[c]
		}
		cmp := bytes.Compare(fi, fj)
		if cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

func (b byColumns) validate() error {
	for _, rec := range b.records {
		r := compareRecord(rec)
		for _, c := range b.cols {
			if c < 0 || c >= len(r.Fields) {
				return ErrColumnOutOfRange
			}
		}
	}
	return nil
}

// compareRecord returns the record used for comparisons: the record
// itself for Add/Delete, the delete-side record for Modify.
func compareRecord(r DiffRecord) *Record {
	if r.Kind == KindModify {
		return r.DeleteRecord
	}
	return r.Record
}
