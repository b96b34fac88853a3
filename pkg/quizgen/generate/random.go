package generate

import "math/rand/v2"

// RandomSource drives distractor sampling and option shuffling.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandom returns a deterministic source for seed.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewUnseededRandom returns a source seeded from the runtime generator.
func NewUnseededRandom() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// sample draws k distinct elements of pool without replacement.
// pool is not modified.
func sample(rng RandomSource, pool []string, k int) []string {
	p := append([]string(nil), pool...)
	if k > len(p) {
		k = len(p)
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(p)-i)
		p[i], p[j] = p[j], p[i]
	}
	return p[:k]
}
