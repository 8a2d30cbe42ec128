package domain

import "math/rand"

// Intn is the slice of a random source that shuffling needs.
// *rand.Rand satisfies it; nil falls back to the package-level source.
type Intn interface {
	Intn(n int) int
}

// Shuffle returns a uniformly random permutation of items (Fisher-Yates).
// The input is left untouched.
func Shuffle[T any](items []T, rnd Intn) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(rnd, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// BuildOptions combines correct with at most maxDistractors entries of pool,
// skipping duplicates and the correct value itself, and shuffles the result.
// Distractors are taken in pool order.
func BuildOptions(correct string, pool []string, maxDistractors int, rnd Intn) []string {
	opts := []string{correct}
	seen := map[string]bool{correct: true}
	for _, p := range pool {
		if len(opts)-1 >= maxDistractors {
			break
		}
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		opts = append(opts, p)
	}
	return Shuffle(opts, rnd)
}

// Sample picks up to n distinct entries of items uniformly at random.
func Sample[T any](items []T, n int, rnd Intn) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return nil
	}
	return Shuffle(items, rnd)[:n]
}

func intn(rnd Intn, n int) int {
	if rnd == nil {
		return rand.Intn(n)
	}
	return rnd.Intn(n)
}
