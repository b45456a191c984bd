package game

import "math/rand/v2"

// newRand returns a seeded generator. A zero seed draws a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// shuffle permutes s in place (Fisher–Yates).
func shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// pickN returns n elements of s chosen uniformly without replacement, or all
// of them (shuffled) when s is shorter. s is not modified.
func pickN[T any](r *rand.Rand, s []T, n int) []T {
	pool := make([]T, len(s))
	copy(pool, s)
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
