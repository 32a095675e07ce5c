package nn

import (
	"math"
	"math/rand/v2"
)

// Rand is the source of randomness for weight initialization.
//
// *rand.Rand from math/rand/v2 satisfies it. Pass the same seeded generator to
// every constructor to get reproducible networks.
type Rand interface {
	Float64() float64 // uniform in [0, 1)
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uniform draws a value in [min, max).
func Uniform(r Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// KaimingBound returns sqrt(6 / fanIn), the He-uniform bound for ReLU networks.
func KaimingBound(fanIn int) float64 {
	return math.Sqrt(6.0 / float64(fanIn))
}

// InitScheme selects how weights are drawn.
type InitScheme int

const (
	// InitUniform draws from a fixed symmetric range: ±1 for neurons, ±0.5 for
	// convolution kernels.
	InitUniform InitScheme = iota

	// InitKaiming draws from ±KaimingBound(fanIn).
	InitKaiming
)

// bound returns the half-width of the weight range for the scheme.
func (s InitScheme) bound(fanIn int, fixed float64) float64 {
	if s == InitKaiming {
		return KaimingBound(fanIn)
	}
	return fixed
}

func (s InitScheme) String() string {
	switch s {
	case InitUniform:
		return "uniform"
	case InitKaiming:
		return "kaiming"
	default:
		return "unknown"
	}
}
