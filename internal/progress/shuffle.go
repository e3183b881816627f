package progress

import "math/rand/v2"

// Rand supplies uniformly distributed integers in [0, n).
type Rand interface {
	IntN(n int) int
}

// defaultRand draws from the global math/rand/v2 source.
type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// Shuffle returns a uniformly random permutation of combos using Fisher–Yates.
// The input slice is not modified.
func Shuffle(combos []string, r Rand) []string {
	out := make([]string, len(combos))
	copy(out, combos)

	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
