package rl

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// Parameter bounds enforced by every mutation.
const (
	MinParam = -1.0
	MaxParam = 1.0
)

// Mutator alters a network's parameters in place. Each connection's weight
// and bias are mutated independently, each with probability p.
type Mutator interface {
	Mutate(net *nn.Network, p float64, rng *rand.Rand)
}

// ResampleMutation replaces a selected parameter with a fresh value drawn
// uniformly from [-1, 1].
type ResampleMutation struct{}

// Mutate implements Mutator.
func (ResampleMutation) Mutate(net *nn.Network, p float64, rng *rand.Rand) {
	mutateEach(net, p, rng, func(float64) float64 {
		return rng.Float64()*(MaxParam-MinParam) + MinParam
	})
}

// ScaleMutation multiplies a selected parameter by a factor drawn uniformly
// from [-1, 1], which shrinks or flips it.
type ScaleMutation struct{}

// Mutate implements Mutator.
func (ScaleMutation) Mutate(net *nn.Network, p float64, rng *rand.Rand) {
	mutateEach(net, p, rng, func(v float64) float64 {
		return clamp(v*(2*rng.Float64()-1), MinParam, MaxParam)
	})
}

func mutateEach(net *nn.Network, p float64, rng *rand.Rand, mutate func(float64) float64) {
	for i := range net.Weights {
		if rng.Float64() < p {
			net.Weights[i] = mutate(net.Weights[i])
		}
		if rng.Float64() < p {
			net.Biases[i] = mutate(net.Biases[i])
		}
	}
	clampAll(net.Weights, MinParam, MaxParam)
	clampAll(net.Biases, MinParam, MaxParam)
}

// NewMutator returns the mutation policy with the given name
// ("resample" or "scale").
func NewMutator(name string) (Mutator, error) {
	switch strings.ToLower(name) {
	case "resample":
		return ResampleMutation{}, nil
	case "scale":
		return ScaleMutation{}, nil
	default:
		return nil, errors.Errorf("unknown mutation policy '%s'", name)
	}
}

// MutationRate decides the mutation probability for the replacement phase of
// a generation from that generation's statistics.
type MutationRate interface {
	Rate(stats GenerationStats) float64
}

// FixedRate always returns the same probability.
type FixedRate float64

// Rate implements MutationRate.
func (r FixedRate) Rate(GenerationStats) float64 {
	return clamp(float64(r), 0, 1)
}

// AdaptiveRate mutates more while the population performs poorly:
// the rate is 1 - mean score, clamped to [0, 1].
type AdaptiveRate struct{}

// Rate implements MutationRate.
func (AdaptiveRate) Rate(stats GenerationStats) float64 {
	return clamp(1-stats.Mean, 0, 1)
}
