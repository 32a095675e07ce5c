// Package nn implements neural network modules on top of the scalar autodiff engine.
//
// This package provides building blocks for small networks:
//   - Module interface: anything that owns trainable leaves
//   - Neuron, Layer, MLP: fully connected composition
//   - Conv2D, GlobalAvgPool, SmallCNN: convolutional composition
//   - Losses: SumSquaredError, MeanSquaredError, SoftmaxCrossEntropy
//   - Initialization: explicit Rand generator, uniform and Kaiming bounds
//
// Every module allocates its parameters once, in a long-lived scope, and builds
// its forward graph in whatever step scope Apply is given. No module introduces
// a new primitive operation: all gradients come from the autodiff rules.
package nn

import "github.com/born-ml/grad/internal/autodiff"

// Module is the base interface for all parameter containers.
type Module interface {
	// Parameters returns every trainable leaf in a fixed order.
	//
	// The order is stable across calls and is the order used by checkpoints.
	Parameters() autodiff.ValueArray
}

// ZeroGrad clears the gradients of all parameters of m.
func ZeroGrad(m Module) {
	m.Parameters().ZeroGrad()
}

// NumParams returns the number of trainable scalars in m.
func NumParams(m Module) int {
	return len(m.Parameters())
}
