// engine.go -- top level entry points
//
// Mirrors the shape of the teacher's New()/NewConcurrent(): a small,
// obvious constructor that wires together the pieces (here: Spawner,
// hash channel, producers, Matcher) and either runs them to completion
// (materialized) or hands back something the caller can pull from
// (streaming) -- one engine, two surfaces, exactly as called for in the
// design notes.

package csvdiff

import (
	"fmt"
	"io"
)

// resultBufCapacity bounds how many DiffRecords the Matcher may get ahead
// of a streaming consumer before it blocks; in materialized mode it's just
// an internal pipe, drained as fast as records arrive.
const resultBufCapacity = 256

// Engine holds everything needed to run one diff: the two configured
// inputs and the Spawner used to run producers and matcher concurrently.
type Engine struct {
	Left    *CsvInput
	Right   *CsvInput
	Spawner Spawner
}

// NewEngine validates left and right against each other and returns an
// Engine ready to Run or Stream. Validation happens synchronously, before
// any producer starts, so a schema mismatch never leaves a partially
// started diff behind.
func NewEngine(left, right *CsvInput, spawner Spawner) (*Engine, error) {
	if err := validateInputs(left, right); err != nil {
		return nil, err
	}
	if spawner == nil {
		spawner = RawSpawner{}
	}
	return &Engine{Left: left, Right: right, Spawner: spawner}, nil
}

// validateInputs enforces the preconditions from spec.md section 6: same
// header layout, same column count, primary-key columns in range on both
// sides. It peeks one record from each side (the header if present, else
// the first data record) purely to learn the column count; this does not
// disturb either producer's later independent scan, since each opens its
// own io.SectionReader from offset 0.
func validateInputs(left, right *CsvInput) error {
	leftCols, err := peekColumnCount(left)
	if err != nil {
		return err
	}
	rightCols, err := peekColumnCount(right)
	if err != nil {
		return err
	}

	if left.HasHeaders != right.HasHeaders {
		return ErrSchemaMismatch
	}
	if leftCols != rightCols {
		return ErrSchemaMismatch
	}

	for _, k := range left.PrimaryKey {
		if k < 0 || k >= leftCols {
			return ErrSchemaMismatch
		}
	}
	for _, k := range right.PrimaryKey {
		if k < 0 || k >= rightCols {
			return ErrSchemaMismatch
		}
	}

	return nil
}

func peekColumnCount(in *CsvInput) (int, error) {
	src := newRecordSource(in)
	fields, _, _, err := src.next()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(fields), nil
}

// Run performs a materialized diff: it blocks until both inputs are fully
// scanned and every match resolved, returning the full DiffResult.
func (e *Engine) Run() (*DiffResult, error) {
	out := make(chan DiffRecord, resultBufCapacity)
	errCh := make(chan error, 1)

	go func() {
		errCh <- e.runScope(out)
		close(out)
	}()

	var res DiffResult
	for rec := range out {
		res.records = append(res.records, rec)
	}

	if err := <-errCh; err != nil {
		return nil, err
	}
	return &res, nil
}

// Stream performs the same diff but returns an iterator immediately:
// Modify records are yielded as matches resolve, interleaved with
// arrivals, and Add/Delete records follow once both producers finish.
// Within each phase the order is unspecified. The returned iterator's
// internal channel is the backpressure knob: the Matcher stops making
// progress once the caller stops calling Next.
func (e *Engine) Stream() *DiffIterator {
	out := make(chan DiffRecord, resultBufCapacity)
	errCh := make(chan error, 1)

	go func() {
		errCh <- e.runScope(out)
		close(out)
	}()

	return &DiffIterator{ch: out, errCh: errCh}
}

func (e *Engine) runScope(out chan<- DiffRecord) error {
	ch := newHashChan()
	m := newMatcher(e.Left, e.Right, out)

	return e.Spawner.RunScoped(
		guardedProducer(e.Left, Left, ch),
		guardedProducer(e.Right, Right, ch),
		func() error { return m.run(ch) },
	)
}

// guardedProducer wraps runProducer so that a panic never leaves the
// matcher blocked forever on ch: runProducer's own side never gets to send
// its done/err message, so the matcher would otherwise wait on that side's
// completion signal indefinitely. Recovering here and poisoning the channel
// ourselves guarantees the matcher always observes either a done or an err
// message for this side.
func guardedProducer(in *CsvInput, side Side, ch chan<- hashMsg) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				wrapped := fmt.Errorf("%w: producer panic: %v", ErrInternal, r)
				ch <- hashMsg{side: side, err: wrapped}
				err = wrapped
			}
		}()
		return runProducer(in, side, ch)
	}
}

// DiffIterator streams DiffRecords lazily. Each call to Next pulls at most
// one record; producers are throttled by the hash channel's 10,000-slot
// buffer and, further upstream, by however far behind the caller falls in
// draining the iterator itself.
type DiffIterator struct {
	ch    <-chan DiffRecord
	errCh chan error
	err   error
}

// Next returns the next DiffRecord, or ok=false when the diff is
// complete. Once ok is false, Err reports whether the diff ended in
// error. Records yielded before an error are not withdrawn: on error,
// what Next returned so far is an incomplete result.
func (it *DiffIterator) Next() (DiffRecord, bool) {
	rec, ok := <-it.ch
	if !ok {
		it.err = <-it.errCh
		return DiffRecord{}, false
	}
	return rec, true
}

// Err returns the first error encountered, if the stream ended early. It
// is only meaningful after Next has returned ok=false.
func (it *DiffIterator) Err() error {
	return it.err
}
