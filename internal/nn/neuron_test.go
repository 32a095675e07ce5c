package nn_test

import (
	"testing"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/born-ml/grad/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNeuron_Apply checks the weighted sum, the parameter count and ReLU.
func TestNeuron_Apply(t *testing.T) {
	params := autodiff.NewScope()
	weights := []float64{2, -1, 3}
	n := nn.NewNeuronFromWeights(params, weights, -5, true)

	require.Len(t, n.Parameters(), len(weights)+1)

	step := params.Child()
	xRaw := []float64{10, 20, 30}
	y := n.Apply(step, step.FromRaw(xRaw))

	want := -5.0
	for i := range weights {
		want += weights[i] * xRaw[i]
	}
	assert.Equal(t, want, y.Data())

	negative := nn.NewNeuronFromWeights(params, []float64{-1}, 0, true)
	assert.Equal(t, 0.0, negative.Apply(step, step.FromRaw([]float64{4})).Data())
}

// TestNeuron_Gradients checks dy/dw = x and dy/db = 1 for a linear neuron.
func TestNeuron_Gradients(t *testing.T) {
	params := autodiff.NewScope()
	n := nn.NewNeuronFromWeights(params, []float64{0.5, -2}, 1, false)

	step := params.Child()
	x := step.FromRaw([]float64{3, 7})
	autodiff.Backward(n.Apply(step, x))

	assert.Equal(t, []float64{3, 7, 1}, n.Parameters().Grads())
	assert.Equal(t, []float64{0.5, -2}, x.Grads())
}

// TestNeuron_Preconditions checks fail-fast on width mismatch and empty input.
func TestNeuron_Preconditions(t *testing.T) {
	params := autodiff.NewScope()
	n := nn.NewNeuron(params, 3, false, nn.NewRand(1), nn.InitUniform)
	step := params.Child()

	assert.Panics(t, func() { n.Apply(step, step.FromRaw([]float64{1, 2})) })
	assert.Panics(t, func() { n.Apply(step, autodiff.ValueArray{}) })
	assert.Panics(t, func() { nn.NewNeuron(params, 0, false, nn.NewRand(1), nn.InitUniform) })
}

// TestNeuron_InitRange checks the uniform and Kaiming bounds.
func TestNeuron_InitRange(t *testing.T) {
	params := autodiff.NewScope()
	r := nn.NewRand(7)

	uniform := nn.NewNeuron(params, 256, false, r, nn.InitUniform)
	for _, w := range uniform.Weights() {
		assert.GreaterOrEqual(t, w.Data(), -1.0)
		assert.Less(t, w.Data(), 1.0)
	}
	assert.Equal(t, 0.0, uniform.Bias().Data())

	bound := nn.KaimingBound(600)
	kaiming := nn.NewNeuron(params, 600, false, r, nn.InitKaiming)
	for _, w := range kaiming.Weights() {
		assert.LessOrEqual(t, w.Data(), bound)
		assert.GreaterOrEqual(t, w.Data(), -bound)
	}
}

// TestLayer_Apply checks a hand-built two-neuron layer.
func TestLayer_Apply(t *testing.T) {
	params := autodiff.NewScope()
	xRaw := []float64{1, 2, 3}
	w0, w1 := []float64{4, 5, 6}, []float64{7, 8, 9}
	b0, b1 := 1.0, 2.0

	layer := nn.NewLayerFromNeurons(
		nn.NewNeuronFromWeights(params, w0, b0, false),
		nn.NewNeuronFromWeights(params, w1, b1, false),
	)
	require.Len(t, layer.Parameters(), len(w0)+len(w1)+2)

	step := params.Child()
	out := layer.Apply(step, step.FromRaw(xRaw))

	want := []float64{b0, b1}
	for i := range xRaw {
		want[0] += xRaw[i] * w0[i]
		want[1] += xRaw[i] * w1[i]
	}
	assert.Equal(t, want, out.Data())
}

// TestLayer_ParameterOrder checks neuron-major flattening.
func TestLayer_ParameterOrder(t *testing.T) {
	params := autodiff.NewScope()
	n0 := nn.NewNeuronFromWeights(params, []float64{1, 2}, 3, false)
	n1 := nn.NewNeuronFromWeights(params, []float64{4, 5}, 6, false)
	layer := nn.NewLayerFromNeurons(n0, n1)

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, layer.Parameters().Data())
	assert.Panics(t, func() {
		nn.NewLayerFromNeurons(n0, nn.NewNeuronFromWeights(params, []float64{1}, 0, false))
	})
}
