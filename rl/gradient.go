package rl

import (
	"github.com/pkg/errors"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// Objective measures the loss of a network's current parameters. It is
// evaluated many times per update and must return the same value for
// unchanged parameters.
type Objective interface {
	Evaluate(net *nn.Network) (float64, error)
}

// ObjectiveFunc adapts a function to the Objective interface.
type ObjectiveFunc func(net *nn.Network) (float64, error)

// Evaluate implements Objective.
func (f ObjectiveFunc) Evaluate(net *nn.Network) (float64, error) {
	return f(net)
}

// GradientEstimator performs sign-only coordinate descent using
// finite-difference loss measurements.
type GradientEstimator struct {
	Committer Committer // Defaults to SerialCommitter
}

// Update probes every connection's weight and then its bias, in flat
// parameter order. For each probe the parameter is moved by delta, the loss
// is measured, and the parameter is restored. The pending step is
// +learnRate when the measured derivative is negative and -learnRate
// otherwise; its magnitude ignores the derivative. The bias probe of a
// connection uses the weight probe's loss as its baseline.
//
// No step is applied until every connection has been measured. Update
// returns the loss of the network as it was before the update.
func (g *GradientEstimator) Update(net *nn.Network, obj Objective, learnRate, delta float64) (float64, error) {
	if delta == 0 {
		return 0, ErrZeroDelta
	}

	n := net.NumConnections()
	weightDeltas := make([]float64, n)
	biasDeltas := make([]float64, n)
	initial := 0.0

	for i := 0; i < n; i++ {
		before, err := obj.Evaluate(net)
		if err != nil {
			return 0, errors.Wrapf(err, "measuring connection %d", i)
		}
		if i == 0 {
			initial = before
		}

		after, step, err := probe(net, obj, net.Weights, i, before, learnRate, delta)
		if err != nil {
			return 0, errors.Wrapf(err, "probing weight %d", i)
		}
		weightDeltas[i] = step

		_, step, err = probe(net, obj, net.Biases, i, after, learnRate, delta)
		if err != nil {
			return 0, errors.Wrapf(err, "probing bias %d", i)
		}
		biasDeltas[i] = step
	}

	committer := g.Committer
	if committer == nil {
		committer = SerialCommitter{}
	}
	if err := committer.Commit(net, weightDeltas, biasDeltas); err != nil {
		return 0, errors.Wrap(err, "committing update")
	}
	return initial, nil
}

// probe perturbs params[i], measures the loss and restores params[i]
// exactly. It returns the perturbed loss and the pending step.
func probe(net *nn.Network, obj Objective, params []float64, i int, before, learnRate, delta float64) (float64, float64, error) {
	original := params[i]
	params[i] = original + delta
	after, err := obj.Evaluate(net)
	params[i] = original
	if err != nil {
		return 0, 0, err
	}

	derivative := (after - before) / delta
	if derivative < 0 {
		return after, learnRate, nil
	}
	return after, -learnRate, nil
}
