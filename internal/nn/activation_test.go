package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/born-ml/grad/internal/nn"
)

func TestReluArray(t *testing.T) {
	s := autodiff.NewScope()
	x := s.FromRaw([]float64{-2, 0, 3})

	y := nn.ReluArray(s, x)
	assert.Equal(t, []float64{0, 0, 3}, y.Data())

	autodiff.Backward(s.Sum(y...))
	assert.Equal(t, []float64{0, 0, 1}, x.Grads())
}

func TestRelu3D(t *testing.T) {
	s := autodiff.NewScope()
	x := s.FromRaw3D([]float64{-1, 2, 3, -4}, 1, 2, 2)

	y := nn.Relu3D(s, x)
	assert.Equal(t, x.Shape, y.Shape)
	assert.Equal(t, []float64{0, 2, 3, 0}, y.Flatten().Data())
}
