package sampling

import (
	"math"
	"math/rand/v2"
)

// New returns a PCG-backed generator seeded from seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// unitOpenLow returns a uniform float in (0, 1].
func unitOpenLow(rng *rand.Rand) float64 {
	return 1 - rng.Float64()
}

// Beta1 draws from Beta(1, alpha) by inverting its CDF 1-(1-x)^alpha.
func Beta1(rng *rand.Rand, alpha float64) float64 {
	return 1 - math.Pow(unitOpenLow(rng), 1/alpha)
}

// Bernoulli returns true with probability p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// Geometric draws the number of trials up to and including the first
// success, so the support starts at 1.
func Geometric(rng *rand.Rand, p float64) int64 {
	if p >= 1 {
		return 1
	}
	k := math.Ceil(math.Log(unitOpenLow(rng)) / math.Log1p(-p))
	if k < 1 {
		return 1
	}
	return int64(k)
}

// Exponential draws from Exp(1) scaled by scale.
func Exponential(rng *rand.Rand, scale float64) float64 {
	return rng.ExpFloat64() * scale
}

// Stream returns an independent generator for one stage of a seeded run.
// Streams of the same seed never share state, so adding draws to one stage
// leaves the others unchanged.
func Stream(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
