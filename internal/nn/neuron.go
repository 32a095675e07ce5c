package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// Neuron computes bias + Σ w[i]*x[i], optionally followed by ReLU.
//
// Example:
//
//	params := autodiff.NewScope()
//	n := nn.NewNeuron(params, 3, true, nn.NewRand(42), nn.InitUniform)
//
//	step := params.Child()
//	y := n.Apply(step, step.FromRaw([]float64{1, 2, 3}))
type Neuron struct {
	weights autodiff.ValueArray
	bias    autodiff.Value
	relu    bool
}

// NewNeuron allocates nin weights and a zero bias in params.
func NewNeuron(params *autodiff.Scope, nin int, relu bool, r Rand, scheme InitScheme) *Neuron {
	if nin <= 0 {
		panic(fmt.Sprintf("nn: neuron input width must be positive, got %d", nin))
	}

	bound := scheme.bound(nin, 1)
	weights := make(autodiff.ValueArray, nin)
	for i := range weights {
		weights[i] = params.Source(Uniform(r, -bound, bound))
	}

	return &Neuron{
		weights: weights,
		bias:    params.Source(0),
		relu:    relu,
	}
}

// NewNeuronFromWeights builds a neuron with fixed weights and bias.
func NewNeuronFromWeights(params *autodiff.Scope, weights []float64, bias float64, relu bool) *Neuron {
	if len(weights) == 0 {
		panic("nn: neuron needs at least one weight")
	}
	return &Neuron{
		weights: params.FromRaw(weights),
		bias:    params.Source(bias),
		relu:    relu,
	}
}

// Apply builds the neuron's output for x in step.
//
// Panics if len(x) differs from the number of weights or is zero.
func (n *Neuron) Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.Value {
	if len(x) == 0 || len(x) != len(n.weights) {
		panic(fmt.Sprintf("nn: neuron expects %d inputs, got %d", len(n.weights), len(x)))
	}

	out := n.bias
	for i, xi := range x {
		out = step.Add(out, step.Mul(xi, n.weights[i]))
	}

	if n.relu {
		out = step.Relu(out)
	}
	return out
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() autodiff.ValueArray {
	params := make(autodiff.ValueArray, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// Weights returns the weight leaves.
func (n *Neuron) Weights() autodiff.ValueArray { return n.weights }

// Bias returns the bias leaf.
func (n *Neuron) Bias() autodiff.Value { return n.bias }

// InFeatures returns the expected input width.
func (n *Neuron) InFeatures() int { return len(n.weights) }

// HasRelu reports whether the activation is enabled.
func (n *Neuron) HasRelu() bool { return n.relu }
