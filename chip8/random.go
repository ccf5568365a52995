package chip8

import (
	"math/rand"
)

// Random is the default RandomSource, backed by math/rand.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a RandomSource seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// RandomByte returns a uniformly distributed byte in [1,255].
func (r *Random) RandomByte() byte {
	return byte(r.rng.Intn(255) + 1)
}
