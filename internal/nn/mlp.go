package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// MLP is a stack of fully connected layers.
//
// Layer i takes the output width of layer i-1 (or nin for the first layer).
// Every layer but the last applies ReLU; the last layer is linear.
//
// Example:
//
//	params := autodiff.NewScope()
//	mlp := nn.NewMLP(params, 3, []int{4, 4, 1}, nn.NewRand(42), nn.InitUniform)
type MLP struct {
	layers []*Layer
}

// NewMLP creates a network with input width nin and the given layer widths.
func NewMLP(params *autodiff.Scope, nin int, outs []int, r Rand, scheme InitScheme) *MLP {
	if len(outs) == 0 {
		panic("nn: MLP needs at least one layer")
	}

	layers := make([]*Layer, len(outs))
	in := nin
	for i, out := range outs {
		layers[i] = NewLayer(params, in, out, i != len(outs)-1, r, scheme)
		in = out
	}
	return &MLP{layers: layers}
}

// NewMLPFromLayers chains existing layers. Adjacent widths must agree.
func NewMLPFromLayers(layers ...*Layer) *MLP {
	if len(layers) == 0 {
		panic("nn: MLP needs at least one layer")
	}
	for i := 1; i < len(layers); i++ {
		if layers[i].InFeatures() != layers[i-1].OutFeatures() {
			panic(fmt.Sprintf("nn: layer %d expects %d inputs, previous layer produces %d",
				i, layers[i].InFeatures(), layers[i-1].OutFeatures()))
		}
	}
	return &MLP{layers: layers}
}

// Apply folds the layers left to right over x.
func (m *MLP) Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray {
	if len(x) != m.InFeatures() {
		panic(fmt.Sprintf("nn: MLP expects %d inputs, got %d", m.InFeatures(), len(x)))
	}
	out := x
	for _, l := range m.layers {
		out = l.Apply(step, out)
	}
	return out
}

// Parameters returns every layer's parameters, layer by layer.
func (m *MLP) Parameters() autodiff.ValueArray {
	var params autodiff.ValueArray
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// Layers returns the layers of the network.
func (m *MLP) Layers() []*Layer { return m.layers }

// InFeatures returns the network input width.
func (m *MLP) InFeatures() int { return m.layers[0].InFeatures() }

// OutFeatures returns the width of the last layer.
func (m *MLP) OutFeatures() int { return m.layers[len(m.layers)-1].OutFeatures() }
