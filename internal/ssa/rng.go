package ssa

import (
	"math"
	"math/rand/v2"
)

// RNG is the uniform pseudo-random source the engine consumes. A single
// RNG is serially shared by one Engine; it is never touched concurrently.
type RNG interface {
	// UnfIE returns a uniform sample in [0, 1).
	UnfIE() float64
	// UnfEE returns a uniform sample in (0, 1), open on both ends.
	UnfEE() float64
	// UnfII returns a uniform sample in [0, 1], closed on both ends.
	UnfII() float64
	// Uint32 returns a raw uniform 32-bit integer.
	Uint32() uint32
	// Exp returns an exponential draw with the given rate: -ln(u)/lambda,
	// u drawn open-open.
	Exp(lambda float64) float64
}

// defaultRNG is the math/rand/v2-backed RNG implementation used when the
// caller does not supply one of its own.
type defaultRNG struct {
	r *rand.Rand
}

// NewRNG builds the default RNG, seeded deterministically from the two
// given uint64 halves (math/rand/v2's PCG seed shape). Identical seeds and
// identical construction order reproduce identical trajectories, matching
// the determinism guarantee in spec.md §5.
func NewRNG(seed1, seed2 uint64) RNG {
	return &defaultRNG{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *defaultRNG) UnfIE() float64 {
	return g.r.Float64()
}

func (g *defaultRNG) UnfEE() float64 {
	for {
		u := g.r.Float64()
		if u > 0 {
			return u
		}
	}
}

func (g *defaultRNG) UnfII() float64 {
	// Float64() samples [0,1); scale so the closed endpoint 1 is reachable
	// with the same granularity as the open endpoint 0.
	return float64(g.r.Uint64()>>11) / float64(1<<53-1)
}

func (g *defaultRNG) Uint32() uint32 {
	return g.r.Uint32()
}

func (g *defaultRNG) Exp(lambda float64) float64 {
	u := g.UnfEE()
	return -math.Log(u) / lambda
}
