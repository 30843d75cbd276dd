package trainerai

import (
	"math/rand"
	"sort"

	"pbs/internal/util"
)

type outcome struct {
	score int
	p     float64
}

// pmf is the exact distribution of one move's total score, ordered by score.
func pmf(ms *MoveScore) []outcome {
	dist := map[int]float64{0: 1}
	for _, a := range ms.Adjustments {
		p := float64(a.Chance) / 256
		if p > 1 {
			p = 1
		}
		if p <= 0 {
			continue
		}
		next := make(map[int]float64, 2*len(dist))
		for s, q := range dist {
			next[s] += q * (1 - p)
			next[s+a.Delta] += q * p
		}
		dist = next
	}
	out := make([]outcome, 0, len(dist))
	for s, q := range dist {
		if q > 0 {
			out = append(out, outcome{score: s + ms.Base, p: q})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].score < out[j].score })
	return out
}

// Distribution gives, for every entry of scores, the probability the AI ends up using it.
// Ties at the top split evenly. The result sums to 1 for a non-empty input.
func Distribution(scores []MoveScore) []float64 {
	n := len(scores)
	if n == 0 {
		return nil
	}
	pmfs := make([][]outcome, n)
	for i := range scores {
		pmfs[i] = pmf(&scores[i])
	}

	out := make([]float64, n)
	vals := make([]int, n)
	var walk func(i int, p float64)
	walk = func(i int, p float64) {
		if i == n {
			best := vals[0]
			for _, v := range vals[1:] {
				best = max(best, v)
			}
			ties := 0
			for _, v := range vals {
				if v == best {
					ties++
				}
			}
			share := p / float64(ties)
			for k, v := range vals {
				if v == best {
					out[k] += share
				}
			}
			return
		}
		for _, o := range pmfs[i] {
			vals[i] = o.score
			walk(i+1, p*o.p)
		}
	}
	walk(0, 1)

	total := 0.0
	for _, p := range out {
		total += p
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out
}

// Choose rolls the adjustments once and returns the slot of the highest total, breaking ties
// uniformly. Returns -1 when there is nothing to choose.
func Choose(rng *rand.Rand, scores []MoveScore) int {
	if len(scores) == 0 {
		return -1
	}
	var best []int
	bestTotal := 0
	for i := range scores {
		total := scores[i].Base
		for _, a := range scores[i].Adjustments {
			if rng.Intn(256) < a.Chance {
				total += a.Delta
			}
		}
		switch {
		case len(best) == 0 || total > bestTotal:
			best, bestTotal = append(best[:0], i), total
		case total == bestTotal:
			best = append(best, i)
		}
	}
	return scores[best[rng.Intn(len(best))]].Slot
}

// Sample draws a slot from a precomputed distribution over scores.
func Sample(rng *rand.Rand, scores []MoveScore, dist []float64) int {
	if len(scores) == 0 {
		return -1
	}
	return scores[util.Weighted(rng, dist)].Slot
}
