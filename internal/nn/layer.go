package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// Layer is a row of independent neurons sharing the same input.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates nout neurons of width nin.
func NewLayer(params *autodiff.Scope, nin, nout int, relu bool, r Rand, scheme InitScheme) *Layer {
	if nout <= 0 {
		panic(fmt.Sprintf("nn: layer output width must be positive, got %d", nout))
	}
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(params, nin, relu, r, scheme)
	}
	return &Layer{neurons: neurons}
}

// NewLayerFromNeurons wraps existing neurons. They must share an input width.
func NewLayerFromNeurons(neurons ...*Neuron) *Layer {
	if len(neurons) == 0 {
		panic("nn: layer needs at least one neuron")
	}
	for _, n := range neurons[1:] {
		if n.InFeatures() != neurons[0].InFeatures() {
			panic(fmt.Sprintf("nn: layer neurons disagree on input width: %d vs %d",
				n.InFeatures(), neurons[0].InFeatures()))
		}
	}
	return &Layer{neurons: neurons}
}

// Apply returns one output per neuron.
func (l *Layer) Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray {
	out := make(autodiff.ValueArray, len(l.neurons))
	for i, n := range l.neurons {
		out[i] = n.Apply(step, x)
	}
	return out
}

// Parameters returns every neuron's parameters, neuron by neuron.
func (l *Layer) Parameters() autodiff.ValueArray {
	params := make(autodiff.ValueArray, 0, len(l.neurons)*(l.InFeatures()+1))
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron { return l.neurons }

// InFeatures returns the input width.
func (l *Layer) InFeatures() int { return l.neurons[0].InFeatures() }

// OutFeatures returns the number of neurons.
func (l *Layer) OutFeatures() int { return len(l.neurons) }
