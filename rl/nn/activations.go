package nn

import (
	"math"

	"github.com/pkg/errors"
)

// ActivationFunc is applied elementwise to every node of a layer after its
// weighted sums have been accumulated. Implementations must be free of side
// effects, since copies of a network share them.
type ActivationFunc func(x float64) float64

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to specify activations by name.
var ActivationFunctions = map[string]ActivationFunc{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"abs":      Absolute, // Alias for absolute
	"sine":     Sine,
	"cosine":   Cosine,
	"hat":      Hat,
	"square":   Square,
	"cube":     Cube,
	"exp":      Exp,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, errors.Errorf("unknown activation function: %s", name)
}

// Activations holds the function used for hidden layers and the one used for
// the output layer.
type Activations struct {
	Hidden ActivationFunc
	Output ActivationFunc // Falls back to Hidden when nil
}

// Uniform returns Activations using fn for every layer.
func Uniform(fn ActivationFunc) Activations {
	return Activations{Hidden: fn}
}

// NewActivations resolves activation names. An empty output name means the
// hidden activation is used for the output layer too.
func NewActivations(hidden, output string) (Activations, error) {
	h, err := GetActivation(hidden)
	if err != nil {
		return Activations{}, errors.Wrap(err, "hidden activation")
	}
	if output == "" {
		return Activations{Hidden: h}, nil
	}
	o, err := GetActivation(output)
	if err != nil {
		return Activations{}, errors.Wrap(err, "output activation")
	}
	return Activations{Hidden: h, Output: o}, nil
}

func (a Activations) output() ActivationFunc {
	if a.Output != nil {
		return a.Output
	}
	return a.Hidden
}

// --- Standard Activation Function Implementations ---

// Sigmoid computes e^x / (1 + e^x). This form is not overflow safe: for large
// x both terms become +Inf and the result is NaN, which Propagate reports.
func Sigmoid(x float64) float64 {
	k := math.Exp(x)
	return k / (1.0 + k)
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped activation function (clamps output between -1 and 1).
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Cosine activation function.
func Cosine(x float64) float64 {
	return math.Cos(x)
}

// Hat activation function (triangular pulse centered at 0).
func Hat(x float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}

// Square activation function (x^2).
func Square(x float64) float64 {
	return x * x
}

// Cube activation function (x^3).
func Cube(x float64) float64 {
	return x * x * x
}

// Exp activation function (e^x), input clamped to [-60, 60].
func Exp(x float64) float64 {
	return math.Exp(math.Max(-60.0, math.Min(x, 60.0)))
}

// Softmax normalizes values into a probability distribution. The input is
// shifted by its maximum before exponentiation. A new slice is returned.
func Softmax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	scale := 0.0
	for i, v := range values {
		out[i] = math.Exp(v - max)
		scale += out[i]
	}
	for i := range out {
		out[i] /= scale
	}
	return out
}
