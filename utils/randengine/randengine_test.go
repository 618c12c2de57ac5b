package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/randengine"
)

func TestDeterminism(t *testing.T) {
	// test: same seed, same sequence

	a := randengine.New(43)
	b := randengine.New(43)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}

	// test: different seeds diverge

	c := randengine.New(44)
	d := randengine.New(45)
	same := true
	for i := 0; i < 100; i++ {
		if c.Float64() != d.Float64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestRanges(t *testing.T) {
	e := randengine.New(1)

	// test: Float64Range bounds

	for i := 0; i < 1000; i++ {
		v := e.Float64Range(-2.5, 7.5)
		assert.GreaterOrEqual(t, v, -2.5)
		assert.Less(t, v, 7.5)
	}

	// test: IntRange bounds

	for i := 0; i < 1000; i++ {
		v := e.IntRange(3, 6)
		assert.GreaterOrEqual(t, v, 3)
		assert.Less(t, v, 6)
	}
}

func TestPTrue(t *testing.T) {
	e := randengine.New(2)
	assert.False(t, e.PTrue(0))
	count := 0
	for i := 0; i < 10000; i++ {
		if e.PTrue(0.3) {
			count++
		}
	}
	assert.InDelta(t, 3000, count, 300)
}

func TestDiscreteDistribution(t *testing.T) {
	e := randengine.New(3)

	// test: single weight always picks index 0

	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, e.DiscreteDistribution([]float64{1}))
	}

	// test: zero-weight entries are never picked

	counts := make([]int, 3)
	for i := 0; i < 10000; i++ {
		counts[e.DiscreteDistribution([]float64{1, 0, 3})]++
	}
	assert.Equal(t, 0, counts[1])
	assert.InDelta(t, 2500, counts[0], 300)
	assert.InDelta(t, 7500, counts[2], 300)
}

func TestChoice(t *testing.T) {
	e := randengine.New(4)
	options := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[randengine.Choice(e, options)] = true
	}
	assert.Len(t, seen, 3)
}
