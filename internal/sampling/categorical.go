package sampling

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Categorical samples slot indices proportionally to a fixed weight vector.
type Categorical struct {
	cdf  []float64
	last int // last category with positive weight
}

// NewCategorical builds the cumulative distribution of weights. Weights
// need not be normalized but must be non-negative with a positive sum.
func NewCategorical(weights []float64) (*Categorical, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidParameter)
	}
	cdf := make([]float64, len(weights))
	sum := 0.0
	last := 0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v at %d", ErrInvalidParameter, w, i)
		}
		if w > 0 {
			last = i
		}
		sum += w
		cdf[i] = sum
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: weights sum to %v", ErrInvalidParameter, sum)
	}
	for i := range cdf {
		cdf[i] /= sum
	}
	return &Categorical{cdf: cdf, last: last}, nil
}

// Len is the number of categories.
func (c *Categorical) Len() int {
	return len(c.cdf)
}

// Draw returns one category index.
func (c *Categorical) Draw(rng *rand.Rand) int {
	u := rng.Float64()
	i := sort.Search(len(c.cdf), func(i int) bool { return c.cdf[i] > u })
	if i == len(c.cdf) {
		// u landed in the rounding gap above the final cumulative value
		return c.last
	}
	return i
}

// Multinomial distributes n trials over the categories and returns the
// non-zero counts keyed by category index.
func (c *Categorical) Multinomial(rng *rand.Rand, n int64) map[int]int64 {
	counts := make(map[int]int64)
	for range n {
		counts[c.Draw(rng)]++
	}
	return counts
}
