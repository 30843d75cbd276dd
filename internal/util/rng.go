package util

import "math/rand"

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Derive gives worker i of a pool its own reproducible seed.
func Derive(seed int64, worker, i int) int64 {
	return seed + int64(worker)*7919 + int64(i)
}

// RandInt draws uniformly from [lo, hi], both inclusive.
func RandInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Percent succeeds with chance/100. 100 and above never draw.
func Percent(rng *rand.Rand, chance int) bool {
	if chance >= 100 {
		return true
	}
	if chance <= 0 {
		return false
	}
	return RandInt(rng, 1, 100) <= chance
}

func CoinFlip(rng *rand.Rand) bool { return rng.Intn(2) == 0 }

// Weighted picks an index proportionally to weights; all-zero weights pick uniformly.
func Weighted(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r < 0 {
			return i
		}
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return 0
}
