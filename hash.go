// hash.go -- fingerprint computation for CSV records
//
// Computes a 128-bit key fingerprint and a 128-bit value fingerprint for a
// single CSV record. The two are kept separate so the Matcher can tell
// "same key, same value" (no diff) from "same key, different value"
// (Modify candidate) without re-reading the original bytes.

package csvdiff

import "github.com/zeebo/xxh3"

// fieldSeparator cannot appear in an unescaped CSV field (it is a control
// character, 0x1F), so concatenating fields with it avoids key-ambiguity
// collisions: "ab","c" and "a","bc" hash differently.
const fieldSeparator = 0x1F

// hashRecord computes the key and value fingerprints for rec, given the
// (0-based, ascending) column indices that make up the primary key.
func hashRecord(rec [][]byte, primaryKey []int) (keyHash, valueHash Fingerprint) {
	isKey := make(map[int]bool, len(primaryKey))
	for _, k := range primaryKey {
		isKey[k] = true
	}

	var keyBuf, valBuf []byte
	for _, k := range primaryKey {
		if k < len(rec) {
			keyBuf = appendField(keyBuf, rec[k])
		}
	}
	for i, f := range rec {
		if isKey[i] {
			continue
		}
		valBuf = appendField(valBuf, f)
	}

	return hash128(keyBuf), hash128(valBuf)
}

// appendField appends f to buf, preceded by the separator byte if buf
// already holds a prior field. This mirrors the teacher's style of
// building up a flat byte buffer rather than hashing incrementally field
// by field, trading a little extra copying for a single hash call.
func appendField(buf []byte, f []byte) []byte {
	if len(buf) > 0 {
		buf = append(buf, fieldSeparator)
	}
	return append(buf, f...)
}

// hash128 wraps xxh3's 128-bit hash into our comparable Fingerprint type.
func hash128(b []byte) Fingerprint {
	h := xxh3.Hash128(b)
	return Fingerprint{Hi: h.Hi, Lo: h.Lo}
}
