package rl

import (
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// Committer adds pending parameter deltas into a network in one pass.
type Committer interface {
	Commit(net *nn.Network, weightDeltas, biasDeltas []float64) error
}

func checkDeltaLengths(net *nn.Network, weightDeltas, biasDeltas []float64) error {
	if len(weightDeltas) != len(net.Weights) {
		return errors.Wrapf(ErrDeltaLength, "weights: want %d, got %d", len(net.Weights), len(weightDeltas))
	}
	if len(biasDeltas) != len(net.Biases) {
		return errors.Wrapf(ErrDeltaLength, "biases: want %d, got %d", len(net.Biases), len(biasDeltas))
	}
	return nil
}

// SerialCommitter adds deltas on the calling goroutine.
type SerialCommitter struct{}

// Commit implements Committer.
func (SerialCommitter) Commit(net *nn.Network, weightDeltas, biasDeltas []float64) error {
	if err := checkDeltaLengths(net, weightDeltas, biasDeltas); err != nil {
		return err
	}
	floats.Add(net.Weights, weightDeltas)
	floats.Add(net.Biases, biasDeltas)
	return nil
}

// ParallelCommitter offloads the elementwise add to a pool of goroutines.
// Weights and biases are packed into one buffer together with their deltas,
// the buffer is split into Chunks ranges that are added concurrently, and
// once every range has finished both parameter arrays are overwritten from
// the buffer.
type ParallelCommitter struct {
	Chunks int // Defaults to the number of logical cores
}

// Commit implements Committer.
func (c ParallelCommitter) Commit(net *nn.Network, weightDeltas, biasDeltas []float64) error {
	if err := checkDeltaLengths(net, weightDeltas, biasDeltas); err != nil {
		return err
	}
	nw := len(net.Weights)
	total := nw + len(net.Biases)
	if total == 0 {
		return nil
	}

	params := make([]float64, 0, total)
	params = append(append(params, net.Weights...), net.Biases...)
	deltas := make([]float64, 0, total)
	deltas = append(append(deltas, weightDeltas...), biasDeltas...)

	chunks := c.Chunks
	if chunks <= 0 {
		chunks = defaultParallelism()
	}
	if chunks > total {
		chunks = total
	}
	size := (total + chunks - 1) / chunks

	p := pool.New().WithMaxGoroutines(chunks)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		dst, src := params[start:end], deltas[start:end]
		p.Go(func() {
			floats.Add(dst, src)
		})
	}
	p.Wait()

	copy(net.Weights, params[:nw])
	copy(net.Biases, params[nw:])
	return nil
}
