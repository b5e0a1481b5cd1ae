package epidemic

import (
	"math"
	"math/rand"
)

// poisson draws a Poisson-distributed value with the given mean from rng.
// Knuth's product method is exact for small means; above the cutoff a
// normal approximation keeps the draw O(1) for city-scale populations.
func poisson(rng *rand.Rand, mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		v := math.Round(mean + math.Sqrt(mean)*rng.NormFloat64())
		if v < 0 {
			return 0
		}
		return v
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return float64(k)
		}
		k++
	}
}
