// presence_test.go -- test suite for the presence filter
//
// Adapted from the teacher's bitvector_test.go (TestConcurrent /
// TestConcurrentRandom), which exercised the same atomic Set/IsSet
// machinery. The marshal round-trip test has no analog here -- the
// presence filter is never persisted -- so it's dropped rather than
// adapted.

package csvdiff

import (
	"math/rand"
	"runtime"
	"sync"
	"testing"
)

func TestPresenceFilterBasic(t *testing.T) {
	assert := newAsserter(t)

	p := newPresenceFilter()
	k := Fingerprint{Hi: 1, Lo: 42}

	assert(!p.maybePresent(k), "unset key reported present")
	p.set(k)
	assert(p.maybePresent(k), "set key reported absent")
}

func TestPresenceFilterConcurrentSet(t *testing.T) {
	assert := newAsserter(t)

	p := newPresenceFilter()
	ncpu := runtime.NumCPU() * 2
	const perWorker = 2000

	keys := make([][]Fingerprint, ncpu)
	var wg sync.WaitGroup
	wg.Add(ncpu)
	for i := 0; i < ncpu; i++ {
		i := i
		go func() {
			defer wg.Done()
			ks := make([]Fingerprint, perWorker)
			for j := range ks {
				k := Fingerprint{Hi: uint64(i), Lo: rand.Uint64()}
				p.set(k)
				ks[j] = k
			}
			keys[i] = ks
		}()
	}
	wg.Wait()

	for _, ks := range keys {
		for _, k := range ks {
			assert(p.maybePresent(k), "concurrently set key reported absent")
		}
	}
}
