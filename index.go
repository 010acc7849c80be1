// index.go -- keyed index and matcher
//
// Grounded on the teacher's dbwriter.go, which kept a map[hash]*record
// (w.keymap) to detect duplicate keys while building a constant DB. Here
// we keep two such maps, one per side, and a key arriving on one side
// either inserts into its own map (first time seen) or consumes the
// matching entry from the opposite map (second time seen, from the other
// side) -- exactly the duplicate-detection idiom, doubled.

package csvdiff

import "fmt"

// matcher owns the two keyed indices and drives the diff from arriving
// hashed records to emitted DiffRecords. It is single-threaded by
// construction: only the goroutine running (*matcher).run ever touches
// its maps, so there is no lock to take.
type matcher struct {
	left  *CsvInput
	right *CsvInput

	leftIndex  map[Fingerprint]IndexEntry
	rightIndex map[Fingerprint]IndexEntry

	leftPresence  *presenceFilter
	rightPresence *presenceFilter

	out chan<- DiffRecord
}

func newMatcher(left, right *CsvInput, out chan<- DiffRecord) *matcher {
	return &matcher{
		left:          left,
		right:         right,
		leftIndex:     make(map[Fingerprint]IndexEntry),
		rightIndex:    make(map[Fingerprint]IndexEntry),
		leftPresence:  newPresenceFilter(),
		rightPresence: newPresenceFilter(),
		out:           out,
	}
}

// run drains ch until both producers have signaled completion (by a done
// message or by an error), emitting Modify records as matches resolve and
// flushing leftover Delete/Add records once both sides are exhausted. On
// the first error observed, run stops inserting but keeps draining so the
// still-running producer never blocks forever on a full channel; it then
// returns that error and emits nothing further.
func (m *matcher) run(ch <-chan hashMsg) error {
	doneLeft, doneRight := false, false
	var firstErr error

	for !doneLeft || !doneRight {
		msg, ok := <-ch
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: hash channel closed before both producers finished", ErrInternal)
			}
			break
		}

		if msg.err != nil {
			if firstErr == nil {
				firstErr = msg.err
			}
			if msg.side == Left {
				doneLeft = true
			} else {
				doneRight = true
			}
			continue
		}

		if msg.done {
			if msg.side == Left {
				doneLeft = true
			} else {
				doneRight = true
			}
			continue
		}

		if firstErr != nil {
			continue // draining only
		}

		var err error
		if msg.side == Left {
			err = m.onLeftArrival(msg.rec)
		} else {
			err = m.onRightArrival(msg.rec)
		}
		if err != nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return firstErr
	}

	return m.flush()
}

func (m *matcher) onLeftArrival(rec HashedRecord) error {
	entry := IndexEntry{KeyHash: rec.KeyHash, ValueHash: rec.ValueHash, Line: rec.Line, ByteOffset: rec.ByteOffset}

	rightEntry, hit := m.lookupRight(rec.KeyHash)
	if !hit {
		m.insertLeft(entry)
		return nil
	}

	delete(m.rightIndex, rec.KeyHash)
	return m.resolveHit(entry, rightEntry)
}

func (m *matcher) onRightArrival(rec HashedRecord) error {
	entry := IndexEntry{KeyHash: rec.KeyHash, ValueHash: rec.ValueHash, Line: rec.Line, ByteOffset: rec.ByteOffset}

	leftEntry, hit := m.lookupLeft(rec.KeyHash)
	if !hit {
		m.insertRight(entry)
		return nil
	}

	delete(m.leftIndex, rec.KeyHash)
	return m.resolveHit(leftEntry, entry)
}

// resolveHit handles a key that has now been seen on both sides. leftEntry
// and rightEntry are the two sides' entries regardless of arrival order.
func (m *matcher) resolveHit(leftEntry, rightEntry IndexEntry) error {
	if leftEntry.ValueHash == rightEntry.ValueHash {
		return nil // identical: no diff
	}

	diff, reinsert, err := resolveModify(m.left, m.right, leftEntry, rightEntry)
	if err != nil {
		return fmt.Errorf("resolving modify: %w", err)
	}

	if reinsert {
		// Key-hash collision: these were never the same record. Put
		// each back into its own side's index to be matched (or
		// flushed) independently.
		m.insertLeft(leftEntry)
		m.insertRight(rightEntry)
		return nil
	}

	if diff == nil {
		return nil // value-hash collision, bytes equal
	}

	m.out <- *diff
	return nil
}

func (m *matcher) lookupLeft(k Fingerprint) (IndexEntry, bool) {
	if !m.leftPresence.maybePresent(k) {
		return IndexEntry{}, false
	}
	e, ok := m.leftIndex[k]
	return e, ok
}

func (m *matcher) lookupRight(k Fingerprint) (IndexEntry, bool) {
	if !m.rightPresence.maybePresent(k) {
		return IndexEntry{}, false
	}
	e, ok := m.rightIndex[k]
	return e, ok
}

func (m *matcher) insertLeft(e IndexEntry) {
	m.leftPresence.set(e.KeyHash)
	m.leftIndex[e.KeyHash] = e
}

func (m *matcher) insertRight(e IndexEntry) {
	m.rightPresence.set(e.KeyHash)
	m.rightIndex[e.KeyHash] = e
}

// flush turns every entry still in either index into a Delete (left) or
// Add (right), re-reading each one's original bytes by seeking to its
// byte offset.
func (m *matcher) flush() error {
	for _, e := range m.leftIndex {
		fields, raw, err := readRawRecordAt(m.left, e.ByteOffset)
		if err != nil {
			return fmt.Errorf("flushing delete: %w", err)
		}
		m.out <- DiffRecord{Kind: KindDelete, Record: &Record{Fields: fields, Raw: raw, Line: e.Line}, Line: e.Line}
	}

	for _, e := range m.rightIndex {
		fields, raw, err := readRawRecordAt(m.right, e.ByteOffset)
		if err != nil {
			return fmt.Errorf("flushing add: %w", err)
		}
		m.out <- DiffRecord{Kind: KindAdd, Record: &Record{Fields: fields, Raw: raw, Line: e.Line}, Line: e.Line}
	}

	return nil
}
