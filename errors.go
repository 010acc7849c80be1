package csvdiff

import "errors"

// ErrSchemaMismatch is returned before producers start when the two sides'
// header column counts differ, or a configured primary-key column is out
// of range for either side.
var ErrSchemaMismatch = errors.New("csvdiff: schema mismatch between left and right inputs")

// ErrColumnOutOfRange is returned by DiffResult.SortByColumns when one of the
// requested column indices exceeds a record's column count. The diff
// result itself remains valid and usable.
var ErrColumnOutOfRange = errors.New("csvdiff: column index out of range")

// ErrInternal is returned when a producer panics or the hash channel is
// disconnected unexpectedly; this is always a programming error in a
// Spawner implementation or in this package, never a normal input fault.
var ErrInternal = errors.New("csvdiff: internal error")

// ErrNotSeekable is returned by input constructors when the given source
// cannot provide positional reads and has not been buffered into memory
// first.
var ErrNotSeekable = errors.New("csvdiff: input is not seekable; buffer it first")
