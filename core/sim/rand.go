package sim

import "math/rand"

// RandomSource supplies every stochastic draw in the simulation so that a run
// is reproducible from a seed.
type RandomSource interface {
	// UniformReal draws a real uniformly from [a, b).
	UniformReal(a, b float64) float64
	// UniformInt draws an integer uniformly from [a, b] inclusive.
	UniformInt(a, b int) int
	// Bernoulli returns true with probability p.
	Bernoulli(p float64) bool
}

type seededSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a RandomSource backed by math/rand with the given
// seed.
func NewRandomSource(seed int64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) UniformReal(a, b float64) float64 {
	if b <= a {
		return a
	}
	return a + s.rng.Float64()*(b-a)
}

func (s *seededSource) UniformInt(a, b int) int {
	if b <= a {
		return a
	}
	return a + s.rng.Intn(b-a+1)
}

func (s *seededSource) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}
