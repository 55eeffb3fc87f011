package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActivation(t *testing.T) {
	fn, err := GetActivation("relu")
	require.NoError(t, err)
	assert.Equal(t, 0.0, fn(-3))
	assert.Equal(t, 2.0, fn(2))

	_, err = GetActivation("swish")
	assert.Error(t, err)
}

func TestNewActivations(t *testing.T) {
	acts, err := NewActivations("sigmoid", "")
	require.NoError(t, err)
	assert.Nil(t, acts.Output)
	assert.InDelta(t, 0.5, acts.output()(0), 1e-15)

	acts, err = NewActivations("tanh", "identity")
	require.NoError(t, err)
	assert.Equal(t, 5.0, acts.output()(5))

	_, err = NewActivations("tanh", "nope")
	assert.Error(t, err)
}

func TestSigmoidOverflow(t *testing.T) {
	assert.InDelta(t, 0.7310585786300049, Sigmoid(1), 1e-15)
	assert.True(t, math.IsNaN(Sigmoid(800)))
}

func TestSoftmax(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	out := Softmax(in)

	assert.Equal(t, []float64{1, 2, 3, 4}, in, "input must not be modified")
	sum := 0.0
	for i, v := range out {
		sum += v
		if i > 0 {
			assert.Greater(t, v, out[i-1])
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	big := Softmax([]float64{1000, 1000})
	assert.InDelta(t, 0.5, big[0], 1e-12)
	assert.Empty(t, Softmax(nil))
}
