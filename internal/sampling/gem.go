package sampling

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidParameter is returned for out-of-domain distribution parameters.
var ErrInvalidParameter = errors.New("invalid distribution parameter")

// GEMOptions configures a truncated GEM draw.
type GEMOptions struct {
	// Alpha is the concentration; larger values spread mass over more slots.
	Alpha float64
	// Length is the maximum number of sticks broken.
	Length int
	// MinRemaining, when positive, stops the sequence once the cumulative
	// weight would reach 1-MinRemaining.
	MinRemaining float64
}

// GEM draws a truncated Griffiths-Engen-McCloskey (stick-breaking) weight
// vector. Proportions p[i] ~ Beta(1, alpha) and
//
//	w[i] = p[i] * prod_{j<i} (1 - p[j])
//
// The last kept weight absorbs the remaining mass so the vector sums to 1.
func GEM(rng *rand.Rand, opts GEMOptions) ([]float64, error) {
	if !(opts.Alpha > 0) {
		return nil, fmt.Errorf("%w: alpha must be > 0, got %v", ErrInvalidParameter, opts.Alpha)
	}
	if opts.Length < 1 {
		return nil, fmt.Errorf("%w: length must be >= 1, got %d", ErrInvalidParameter, opts.Length)
	}
	if opts.MinRemaining < 0 || opts.MinRemaining >= 1 {
		return nil, fmt.Errorf("%w: min remaining mass must be in [0, 1), got %v", ErrInvalidParameter, opts.MinRemaining)
	}

	weights := make([]float64, opts.Length)
	stick := 1.0
	for i := range weights {
		p := Beta1(rng, opts.Alpha)
		weights[i] = p * stick
		stick *= 1 - p
	}

	if opts.MinRemaining > 0 {
		weights = weights[:truncateAt(weights, 1-opts.MinRemaining)]
	}

	last := len(weights) - 1
	rest := 0.0
	for _, w := range weights[:last] {
		rest += w
	}
	weights[last] = 1 - rest
	return weights, nil
}

// truncateAt returns how many leading weights keep the cumulative sum below
// limit. At least one weight is always kept.
func truncateAt(weights []float64, limit float64) int {
	cum := 0.0
	for i, w := range weights {
		cum += w
		if cum >= limit {
			return max(i, 1)
		}
	}
	return len(weights)
}

// SelectCatalogue maps every slot onto a uniformly chosen index into a pool
// of poolSize books. Draws are with replacement, so two slots may reference
// the same book.
func SelectCatalogue(rng *rand.Rand, slots, poolSize int) ([]int, error) {
	if poolSize < 1 {
		return nil, fmt.Errorf("%w: book pool is empty", ErrInvalidParameter)
	}
	index := make([]int, slots)
	for i := range index {
		index[i] = rng.IntN(poolSize)
	}
	return index, nil
}
