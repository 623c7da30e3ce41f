// Package entropy provides the seeded random stream shared by the whole
// simulation and the per-tick agent ordering strategy. Every stochastic
// draw in a run flows through one Stream, so identical seeds produce
// bit-identical runs.
package entropy

import "math/rand"

// Stream is a deterministic random source. Not safe for concurrent use;
// the simulation is single-threaded by design.
type Stream struct {
	rng *rand.Rand
}

// NewStream creates a stream from a seed.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a random float64 in [0, 1).
func (s *Stream) Float() float64 {
	return s.rng.Float64()
}

// Range returns a random float64 in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Pick returns a random index in [0, n).
func (s *Stream) Pick(n int) int {
	return s.rng.Intn(n)
}

// Perm returns a random permutation of [0, n).
func (s *Stream) Perm(n int) []int {
	return s.rng.Perm(n)
}

// OrderStrategy decides the agent execution order for one tick.
type OrderStrategy interface {
	Order(n int) []int
}

// ShuffledOrder reshuffles the roster every tick from the stream.
// This is the production strategy: which agents see an already-updated
// market price within a tick is itself randomized.
type ShuffledOrder struct {
	Stream *Stream
}

func (o ShuffledOrder) Order(n int) []int {
	return o.Stream.Perm(n)
}

// FixedOrder runs agents in roster order. Used by tests that need a
// known read/write ordering within a tick.
type FixedOrder struct{}

func (FixedOrder) Order(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
