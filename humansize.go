// humansize.go -- print byte sizes in human readable form
//
// Kept from the teacher's own humansize.go (originally used to report
// constant-DB sizes); used here by the CLI to summarize how much of each
// input was scanned.

package csvdiff

import "fmt"

const (
	_byte = 1 << (iota * 10)
	_kB
	_MB
	_GB
	_TB
	_PB
	_EB
)

// HumanSize formats sz bytes as a short human-readable string, e.g.
// "12 MB".
func HumanSize(sz int64) string {
	if sz < 0 {
		sz = 0
	}

	var a, b int64
	var s string

	switch {
	case sz >= _EB:
		a, b, s = sz/_EB, sz%_EB, "EB"
	case sz >= _PB:
		a, b, s = sz/_PB, sz%_PB, "PB"
	case sz >= _TB:
		a, b, s = sz/_TB, sz%_TB, "TB"
	case sz >= _GB:
		a, b, s = sz/_GB, sz%_GB, "GB"
	case sz >= _MB:
		a, b, s = sz/_MB, sz%_MB, "MB"
	case sz >= _kB:
		a, b, s = sz/_kB, sz%_kB, "kB"
	default:
		return fmt.Sprintf("%d B", sz)
	}

	if b > 0 {
		z := fmt.Sprintf("%d", b)
		return fmt.Sprintf("%d.%2.2s %s", a, z, s)
	}
	return fmt.Sprintf("%d %s", a, s)
}
