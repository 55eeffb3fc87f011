package nn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func double(x float64) float64 { return x * 2 }

func TestPropagate(t *testing.T) {
	layers := []int{2, 2, 2}
	weights := []float64{0.5, 1, 1, 0.5, 0.5, 1, 1, 0.5}
	biases := []float64{0.5, 1, 1, 0.5, 0.5, 1, 1, 0.5}

	net, err := New(layers, Uniform(double), weights, biases)
	require.NoError(t, err)

	out, err := net.Propagate([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 21}, out)

	// The scratch buffer is reset between calls.
	out, err = net.Propagate([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 21}, out)
}

func TestPropagateOutputActivation(t *testing.T) {
	layers := []int{2, 2, 2}
	params := []float64{0.5, 1, 1, 0.5, 0.5, 1, 1, 0.5}

	net, err := New(layers, Activations{Hidden: double, Output: Identity}, params, params)
	require.NoError(t, err)

	out, err := net.Propagate([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 10.5}, out)
}

func TestPropagateReturnsIndependentSlice(t *testing.T) {
	net, err := New([]int{1, 1}, Uniform(Identity), []float64{1}, []float64{0})
	require.NoError(t, err)

	out, err := net.Propagate([]float64{3})
	require.NoError(t, err)
	out[0] = 100

	again, err := net.Propagate([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, again)
}

func TestPropagateInputLength(t *testing.T) {
	net, err := New([]int{2, 1}, Uniform(Identity), []float64{1, 1}, []float64{0, 0})
	require.NoError(t, err)

	_, err = net.Propagate([]float64{1})
	assert.True(t, errors.Is(err, ErrInputLength))

	_, err = net.Propagate([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, ErrInputLength))
}

func TestPropagateNaN(t *testing.T) {
	net, err := New([]int{1, 1}, Uniform(Sigmoid), []float64{1}, []float64{0})
	require.NoError(t, err)

	_, err = net.Propagate([]float64{1000})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNaN))

	out, err := net.Propagate([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-15)
}

func TestConstructionParameterLength(t *testing.T) {
	layers := []int{3, 2, 4}
	n, err := ConnectionCount(layers)
	require.NoError(t, err)
	assert.Equal(t, 3*2+2*4, n)

	_, err = New(layers, Uniform(Identity), make([]float64, n-1), make([]float64, n))
	assert.True(t, errors.Is(err, ErrParameterLength))

	_, err = New(layers, Uniform(Identity), make([]float64, n), make([]float64, n+1))
	assert.True(t, errors.Is(err, ErrParameterLength))
}

func TestConstructionTopology(t *testing.T) {
	for _, layers := range [][]int{nil, {3}, {2, 0}, {2, -1, 2}} {
		_, err := NewRandom(layers, Uniform(Identity), rand.New(rand.NewSource(1)))
		assert.True(t, errors.Is(err, ErrTopology), "layers %v", layers)
	}
}

func TestNewRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, layers := range [][]int{{4, 4, 4}, {1, 1}, {5, 3, 2, 7}} {
		net, err := NewRandom(layers, Uniform(Sigmoid), rng)
		require.NoError(t, err)

		n, _ := ConnectionCount(layers)
		require.Len(t, net.Weights, n)
		require.Len(t, net.Biases, n)
		for i := range net.Weights {
			assert.LessOrEqual(t, math.Abs(net.Weights[i]), InitWeightRange)
			assert.Equal(t, InitBias, net.Biases[i])
		}
	}
}

func TestCopyIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, layers := range [][]int{{2, 2}, {4, 4, 4}, {3, 5, 1}} {
		original, err := NewRandom(layers, Uniform(Tanh), rng)
		require.NoError(t, err)
		weights := append([]float64(nil), original.Weights...)
		biases := append([]float64(nil), original.Biases...)

		c := original.Copy()
		assert.Equal(t, original.Layers(), c.Layers())
		for i := range c.Weights {
			c.Weights[i] += 1
			c.Biases[i] -= 1
		}
		assert.Equal(t, weights, original.Weights)
		assert.Equal(t, biases, original.Biases)

		c2 := original.Copy()
		original.Weights[0] = 42
		assert.NotEqual(t, 42.0, c2.Weights[0])
	}
}

func TestReconstructionIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	layers := []int{4, 6, 4}
	n, _ := ConnectionCount(layers)
	weights := make([]float64, n)
	biases := make([]float64, n)
	for i := range weights {
		weights[i] = rng.Float64()*2 - 1
		biases[i] = rng.Float64()*2 - 1
	}

	a, err := New(layers, Uniform(Tanh), weights, biases)
	require.NoError(t, err)
	b, err := New(layers, Uniform(Tanh), weights, biases)
	require.NoError(t, err)

	for trial := 0; trial < 10; trial++ {
		in := []float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
		outA, err := a.Propagate(in)
		require.NoError(t, err)
		outB, err := b.Propagate(in)
		require.NoError(t, err)
		assert.Equal(t, outA, outB)
	}
}

func TestLayersIsACopy(t *testing.T) {
	net, err := NewRandom([]int{2, 3}, Uniform(Identity), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	l := net.Layers()
	l[0] = 9
	assert.Equal(t, 2, net.NumInputs())
	assert.Equal(t, 3, net.NumOutputs())
	assert.Equal(t, 6, net.NumConnections())
}
