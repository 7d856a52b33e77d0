package particles

import "math/rand"

// Rand is the random source behind particle spawning. Injectable so
// tests can supply a deterministic sequence and assert exact respawn
// positions and velocities.
type Rand interface {
	// Float64 returns the next value in [0, 1).
	Float64() float64
}

type seededRand struct {
	rng *rand.Rand
}

// NewRand returns a Rand backed by math/rand with the given seed.
func NewRand(seed int64) Rand {
	return &seededRand{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededRand) Float64() float64 {
	return s.rng.Float64()
}
