package nn

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Initial parameter values for randomly initialized networks.
const (
	InitWeightRange = 0.005 // Weights are drawn from U(-InitWeightRange, InitWeightRange)
	InitBias        = 0.01
)

// Network is a fully connected feed-forward network in which every
// connection (from-node, to-node) between adjacent layers carries its own
// weight and its own bias.
//
// Weights and Biases are flat, indexed row-major by layer, then from-node,
// then to-node. Both always have NumConnections() entries.
//
// A Network owns a scratch buffer for propagation and must not be propagated
// from several goroutines at once. Use Copy to obtain an independent network.
type Network struct {
	Weights []float64
	Biases  []float64

	layers      []int
	activations Activations
	values      []float64 // Scratch: one contiguous slice per layer
	offsets     []int     // Start of each layer within values
}

// ConnectionCount returns the number of connections of a topology, or an
// error wrapping ErrTopology if the topology is invalid.
func ConnectionCount(layers []int) (int, error) {
	if len(layers) < 2 {
		return 0, errors.Wrapf(ErrTopology, "need at least 2 layers, got %d", len(layers))
	}
	n := 0
	for i, size := range layers {
		if size <= 0 {
			return 0, errors.Wrapf(ErrTopology, "layer %d has size %d", i, size)
		}
		if i > 0 {
			n += layers[i-1] * size
		}
	}
	return n, nil
}

// New builds a network with explicit parameters. The weight and bias arrays
// are copied. Their lengths must equal ConnectionCount(layers).
func New(layers []int, acts Activations, weights, biases []float64) (*Network, error) {
	n, err := ConnectionCount(layers)
	if err != nil {
		return nil, err
	}
	if acts.Hidden == nil {
		return nil, errors.New("hidden activation function is required")
	}
	if len(weights) != n {
		return nil, errors.Wrapf(ErrParameterLength, "weights: want %d, got %d", n, len(weights))
	}
	if len(biases) != n {
		return nil, errors.Wrapf(ErrParameterLength, "biases: want %d, got %d", n, len(biases))
	}
	net := newNetwork(layers, acts, n)
	copy(net.Weights, weights)
	copy(net.Biases, biases)
	return net, nil
}

// NewRandom builds a network with weights drawn uniformly from
// (-InitWeightRange, InitWeightRange) and every bias set to InitBias.
func NewRandom(layers []int, acts Activations, rng *rand.Rand) (*Network, error) {
	n, err := ConnectionCount(layers)
	if err != nil {
		return nil, err
	}
	if acts.Hidden == nil {
		return nil, errors.New("hidden activation function is required")
	}
	net := newNetwork(layers, acts, n)
	for i := range net.Weights {
		net.Weights[i] = (rng.Float64()*2 - 1) * InitWeightRange
		net.Biases[i] = InitBias
	}
	return net, nil
}

func newNetwork(layers []int, acts Activations, connections int) *Network {
	net := &Network{
		Weights:     make([]float64, connections),
		Biases:      make([]float64, connections),
		layers:      append([]int(nil), layers...),
		activations: acts,
		offsets:     make([]int, len(layers)),
	}
	total := 0
	for i, size := range layers {
		net.offsets[i] = total
		total += size
	}
	net.values = make([]float64, total)
	return net
}

// Copy returns a network with the same topology and activation functions
// and its own copy of the parameters.
func (net *Network) Copy() *Network {
	c := newNetwork(net.layers, net.activations, len(net.Weights))
	copy(c.Weights, net.Weights)
	copy(c.Biases, net.Biases)
	return c
}

// Layers returns a copy of the topology.
func (net *Network) Layers() []int {
	return append([]int(nil), net.layers...)
}

// NumInputs returns the size of the input layer.
func (net *Network) NumInputs() int { return net.layers[0] }

// NumOutputs returns the size of the output layer.
func (net *Network) NumOutputs() int { return net.layers[len(net.layers)-1] }

// NumConnections returns the number of weights (and of biases).
func (net *Network) NumConnections() int { return len(net.Weights) }

func (net *Network) layer(i int) []float64 {
	start := net.offsets[i]
	return net.values[start : start+net.layers[i]]
}

// Propagate feeds inputs through the network and returns the output layer
// values as a new slice.
//
// Summation follows the flat parameter order exactly, so results are
// reproducible bit for bit. A NaN produced by an activation function aborts
// propagation with an error wrapping ErrNaN.
func (net *Network) Propagate(inputs []float64) ([]float64, error) {
	if len(inputs) != net.layers[0] {
		return nil, errors.Wrapf(ErrInputLength, "want %d, got %d", net.layers[0], len(inputs))
	}

	for i := range net.values {
		net.values[i] = 0
	}
	copy(net.layer(0), inputs)

	last := len(net.layers) - 1
	k := 0 // Flat connection index
	for l := 0; l < last; l++ {
		current := net.layer(l)
		next := net.layer(l + 1)

		for _, from := range current {
			for to := range next {
				next[to] += from*net.Weights[k] + net.Biases[k]
				k++
			}
		}

		act := net.activations.Hidden
		if l+1 == last {
			act = net.activations.output()
		}
		for i, v := range next {
			out := act(v)
			if math.IsNaN(out) {
				return nil, errors.Wrapf(ErrNaN, "layer %d node %d (input %v)", l+1, i, v)
			}
			next[i] = out
		}
	}

	return append([]float64(nil), net.layer(last)...), nil
}
