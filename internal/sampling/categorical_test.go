package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCategorical_ZeroWeightNeverDrawn(t *testing.T) {
	c, err := NewCategorical([]float64{0, 0.5, 0, 0.5, 0})
	require.NoError(t, err)
	rng := New(11)
	for range 10_000 {
		i := c.Draw(rng)
		assert.Contains(t, []int{1, 3}, i)
	}
}

func TestCategorical_Invalid(t *testing.T) {
	_, err := NewCategorical(nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewCategorical([]float64{0.5, -0.1})
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewCategorical([]float64{0, 0})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMultinomial_CountsSumToTrials(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weights := rapid.SliceOfN(rapid.Float64Range(0, 1), 1, 50).Draw(t, "weights")
		weights[0] += 0.01
		n := rapid.Int64Range(0, 1000).Draw(t, "n")
		c, err := NewCategorical(weights)
		if err != nil {
			t.Fatalf("NewCategorical: %v", err)
		}
		counts := c.Multinomial(New(rapid.Uint64().Draw(t, "seed")), n)
		total := int64(0)
		for slot, k := range counts {
			if slot < 0 || slot >= len(weights) {
				t.Fatalf("slot %d out of range", slot)
			}
			if k <= 0 {
				t.Fatalf("non-positive count %d for slot %d", k, slot)
			}
			if weights[slot] == 0 {
				t.Fatalf("zero-weight slot %d drawn", slot)
			}
			total += k
		}
		if total != n {
			t.Fatalf("counts sum to %d, want %d", total, n)
		}
	})
}

func TestGeometric_SupportStartsAtOne(t *testing.T) {
	rng := New(5)
	mean := 0.0
	const draws = 20_000
	for range draws {
		k := Geometric(rng, 1.0/8)
		require.GreaterOrEqual(t, k, int64(1))
		mean += float64(k)
	}
	mean /= draws
	assert.InDelta(t, 8.0, mean, 0.5)
	assert.Equal(t, int64(1), Geometric(rng, 1))
}

func TestBeta1_InUnitInterval(t *testing.T) {
	rng := New(9)
	for range 10_000 {
		p := Beta1(rng, 30)
		require.GreaterOrEqual(t, p, 0.0)
		require.Less(t, p, 1.0)
	}
}

func TestBernoulli(t *testing.T) {
	rng := New(2)
	hits := 0
	for range 30_000 {
		if Bernoulli(rng, 1.0/3) {
			hits++
		}
	}
	assert.InDelta(t, 10_000, hits, 600)
	assert.False(t, Bernoulli(rng, 0))
}
