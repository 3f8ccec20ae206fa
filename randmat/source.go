// SPDX-License-Identifier: MIT

package randmat

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mathext/prng"
)

// NewSource returns a reproducible generator over xoshiro256+ seeded with seed.
// The returned *rand.Rand is not safe for concurrent use; give each
// comparison its own.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(prng.NewXoshiro256plus(seed))
}

// EntropySeed draws a fresh seed from the runtime's entropy-seeded global
// generator. It is safe for concurrent use.
func EntropySeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
