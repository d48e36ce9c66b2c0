package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestStream_IndependentAndReproducible(t *testing.T) {
	a, b := Stream(42, 1), Stream(42, 1)
	other := Stream(42, 2)
	same, differ := 0, 0
	for range 100 {
		x := a.Uint64()
		assert.Equal(t, x, b.Uint64())
		if x == other.Uint64() {
			same++
		} else {
			differ++
		}
	}
	assert.Zero(t, same)
	assert.Equal(t, 100, differ)
}

func TestGeometric_SupportStartsAtOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.Float64Range(0.01, 1).Draw(t, "p")
		rng := New(rapid.Uint64().Draw(t, "seed"))
		for range 20 {
			if k := Geometric(rng, p); k < 1 {
				t.Fatalf("Geometric(%v) = %d", p, k)
			}
		}
	})
}

func TestGeometric_Mean(t *testing.T) {
	rng := New(7)
	const n = 20000
	var sum int64
	for range n {
		sum += Geometric(rng, 1.0/8)
	}
	assert.InDelta(t, 8.0, float64(sum)/n, 0.3)
}

func TestBeta1_InUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		alpha := rapid.Float64Range(0.1, 100).Draw(t, "alpha")
		rng := New(rapid.Uint64().Draw(t, "seed"))
		x := Beta1(rng, alpha)
		if x < 0 || x > 1 {
			t.Fatalf("Beta1(%v) = %v", alpha, x)
		}
	})
}

func TestBernoulli_Extremes(t *testing.T) {
	rng := New(1)
	for range 100 {
		assert.False(t, Bernoulli(rng, 0))
		assert.True(t, Bernoulli(rng, 1))
	}
}
