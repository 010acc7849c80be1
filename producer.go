package csvdiff

import (
	"errors"
	"fmt"
	"io"
)

// runProducer scans in sequentially, hashing each data record and sending
// it on ch. Headers (if present) are consumed and discarded before
// hashing. A parse or I/O failure is sent as a poisoned message and the
// producer stops; end of input is signaled with a done message.
func runProducer(in *CsvInput, side Side, ch chan<- hashMsg) error {
	src := newRecordSource(in)

	if in.HasHeaders {
		if _, _, _, err := src.next(); err != nil && !errors.Is(err, io.EOF) {
			ch <- hashMsg{side: side, err: fmt.Errorf("%s: header: %w", side, err)}
			return err
		}
	}

	for {
		fields, line, offset, err := src.next()
		if errors.Is(err, io.EOF) {
			ch <- hashMsg{side: side, done: true}
			return nil
		}
		if err != nil {
			wrapped := fmt.Errorf("%s: %w", side, err)
			ch <- hashMsg{side: side, err: wrapped}
			return wrapped
		}

		keyHash, valueHash := hashRecord(fields, in.PrimaryKey)
		ch <- hashMsg{rec: HashedRecord{
			Side:       side,
			KeyHash:    keyHash,
			ValueHash:  valueHash,
			Line:       line,
			ByteOffset: offset,
		}}
	}
}
