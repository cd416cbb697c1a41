// Package entropy provides the random sources used for tie breaking and playouts.
package entropy

import (
	"math"
	"math/rand"

	"lukechampine.com/frand"
)

// New returns a generator seeded with seed. A zero seed draws a fresh one from the system's entropy.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = int64(frand.Uint64n(math.MaxInt64)) + 1
	}
	return rand.New(rand.NewSource(seed))
}

// OrNew returns r, or a freshly seeded generator if r is nil.
func OrNew(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return New(0)
}
