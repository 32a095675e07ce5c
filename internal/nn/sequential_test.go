package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/born-ml/grad/internal/nn"
)

func TestSequential_MatchesMLP(t *testing.T) {
	params := autodiff.NewScope()
	mlp := nn.NewMLP(params, 3, []int{4, 4, 1}, nn.NewRand(42), nn.InitUniform)

	layers := mlp.Layers()
	seq := nn.NewSequential(layers[0], layers[1])
	seq.Add(layers[2])

	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, mlp.Parameters(), seq.Parameters())

	step := params.Child()
	x := step.FromRaw([]float64{2, 3, -1})
	assert.Equal(t, mlp.Apply(step, x).Data(), seq.Apply(step, x).Data())
	assert.Panics(t, func() { seq.Stage(3) })
}

func TestSequential_ReLUStage(t *testing.T) {
	params := autodiff.NewScope()
	linear := nn.NewLayerFromNeurons(
		nn.NewNeuronFromWeights(params, []float64{1}, 0, false),
		nn.NewNeuronFromWeights(params, []float64{-1}, 0, false),
	)
	seq := nn.NewSequential(linear, nn.ReLU{})

	step := params.Child()
	out := seq.Apply(step, step.FromRaw([]float64{2}))

	assert.Equal(t, []float64{2, 0}, out.Data())
	assert.Len(t, seq.Parameters(), 4)
	assert.IsType(t, nn.ReLU{}, seq.Stage(1))
}
