package csvdiff

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFileInputRejectsNonRegularFile(t *testing.T) {
	assert := newAsserter(t)

	_, err := NewFileInput(os.TempDir(), true, []int{0}, ',')
	assert(err != nil, "opening a directory as a CSV input must fail")
	assert(errors.Is(err, ErrNotSeekable), "expected ErrNotSeekable, got %v", err)
}

func TestNewFileInputReadsRegularFile(t *testing.T) {
	assert := newAsserter(t)

	fn := filepath.Join(t.TempDir(), "left.csv")
	assert(os.WriteFile(fn, []byte("id,name\n1,alice\n"), 0o644) == nil, "writing fixture file")

	in, err := NewFileInput(fn, true, []int{0}, ',')
	assert(err == nil, "NewFileInput: %v", err)
	defer in.Close()

	assert(in.Size == int64(len("id,name\n1,alice\n")), "unexpected Size %d", in.Size)
}
