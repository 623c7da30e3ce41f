package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamIsDeterministicPerSeed(t *testing.T) {
	a, b := NewStream(42), NewStream(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}

	c := NewStream(43)
	assert.NotEqual(t, NewStream(42).Float(), c.Float())
}

func TestRangeBounds(t *testing.T) {
	s := NewStream(1)
	for i := 0; i < 1000; i++ {
		v := s.Range(0.7, 1.3)
		assert.GreaterOrEqual(t, v, 0.7)
		assert.Less(t, v, 1.3)
	}
}

func TestChanceExtremes(t *testing.T) {
	s := NewStream(1)
	for i := 0; i < 100; i++ {
		assert.False(t, s.Chance(0))
		assert.True(t, s.Chance(1))
	}
}

func TestPickBounds(t *testing.T) {
	s := NewStream(1)
	for i := 0; i < 1000; i++ {
		v := s.Pick(18)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 18)
	}
}

func TestShuffledOrderIsAPermutation(t *testing.T) {
	o := ShuffledOrder{Stream: NewStream(7)}
	order := o.Order(50)

	seen := make(map[int]bool, 50)
	for _, i := range order {
		assert.False(t, seen[i], "index %d repeated", i)
		seen[i] = true
	}
	assert.Len(t, seen, 50)
}

func TestFixedOrderIsIdentity(t *testing.T) {
	order := FixedOrder{}.Order(5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
