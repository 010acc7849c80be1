package csvdiff

import "testing"

func TestHashRecordKeyValueSeparate(t *testing.T) {
	assert := newAsserter(t)

	keyA, valA := hashRecord([][]byte{[]byte("1"), []byte("alice")}, []int{0})
	keyB, valB := hashRecord([][]byte{[]byte("1"), []byte("bob")}, []int{0})

	assert(keyA == keyB, "same key column must hash identically")
	assert(valA != valB, "different value column must hash differently")
}

func TestHashRecordFieldSeparatorAvoidsAmbiguity(t *testing.T) {
	assert := newAsserter(t)

	// "ab","c" and "a","bc" must not collide just because their naive
	// concatenation ("abc") would be identical.
	keyA, _ := hashRecord([][]byte{[]byte("ab"), []byte("c")}, []int{0, 1})
	keyB, _ := hashRecord([][]byte{[]byte("a"), []byte("bc")}, []int{0, 1})

	assert(keyA != keyB, "field-separated concatenation must distinguish (ab,c) from (a,bc)")
}

func TestHashRecordCompositeKey(t *testing.T) {
	assert := newAsserter(t)

	keyA, _ := hashRecord([][]byte{[]byte("US"), []byte("CA"), []byte("x")}, []int{0, 1})
	keyB, _ := hashRecord([][]byte{[]byte("US"), []byte("NY"), []byte("x")}, []int{0, 1})

	assert(keyA != keyB, "composite key must consider every key column")
}

func TestHashRecordValueHashIgnoresKeyColumns(t *testing.T) {
	assert := newAsserter(t)

	_, valA := hashRecord([][]byte{[]byte("1"), []byte("same")}, []int{0})
	_, valB := hashRecord([][]byte{[]byte("2"), []byte("same")}, []int{0})

	assert(valA == valB, "value hash must not depend on the key column's contents")
}
