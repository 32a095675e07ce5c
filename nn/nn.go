// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/grad/autodiff"
	"github.com/born-ml/grad/internal/nn"
)

// Module is anything that owns trainable leaves.
type Module = nn.Module

// Rand is the source of randomness for weight initialization.
type Rand = nn.Rand

// InitScheme selects how weights are drawn.
type InitScheme = nn.InitScheme

// Initialization schemes.
const (
	InitUniform = nn.InitUniform
	InitKaiming = nn.InitKaiming
)

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) Rand {
	return nn.NewRand(seed)
}

// Neuron computes relu?(w·x + b).
type Neuron = nn.Neuron

// NewNeuron allocates a neuron with nin weights in params.
func NewNeuron(params *autodiff.Scope, nin int, relu bool, r Rand, scheme InitScheme) *Neuron {
	return nn.NewNeuron(params, nin, relu, r, scheme)
}

// Layer is a list of neurons sharing one input.
type Layer = nn.Layer

// NewLayer allocates nout neurons of nin inputs each.
func NewLayer(params *autodiff.Scope, nin, nout int, relu bool, r Rand, scheme InitScheme) *Layer {
	return nn.NewLayer(params, nin, nout, relu, r, scheme)
}

// MLP is a stack of layers; all but the last apply ReLU.
//
// Example:
//
//	mlp := nn.NewMLP(params, 3, []int{4, 4, 1}, nn.NewRand(42), nn.InitUniform)
type MLP = nn.MLP

// NewMLP allocates an MLP with the given layer widths.
func NewMLP(params *autodiff.Scope, nin int, outs []int, r Rand, scheme InitScheme) *MLP {
	return nn.NewMLP(params, nin, outs, r, scheme)
}

// Conv2D is a 2D convolution over an Array3D.
type Conv2D = nn.Conv2D

// Conv2DConfig describes a Conv2D.
type Conv2DConfig = nn.Conv2DConfig

// NewConv2D allocates a convolution layer.
func NewConv2D(params *autodiff.Scope, cfg Conv2DConfig, r Rand) *Conv2D {
	return nn.NewConv2D(params, cfg, r)
}

// SmallCNN is a compact convolutional classifier.
type SmallCNN = nn.SmallCNN

// SmallCNNConfig describes a SmallCNN.
type SmallCNNConfig = nn.SmallCNNConfig

// NewSmallCNN allocates a SmallCNN.
func NewSmallCNN(params *autodiff.Scope, cfg SmallCNNConfig, r Rand) *SmallCNN {
	return nn.NewSmallCNN(params, cfg, r)
}

// GlobalAvgPool averages each channel of x to one value.
func GlobalAvgPool(step *autodiff.Scope, x autodiff.Array3D) autodiff.ValueArray {
	return nn.GlobalAvgPool(step, x)
}

// SumSquaredError returns Σ (pred_i - target_i)².
func SumSquaredError(step *autodiff.Scope, pred, target autodiff.ValueArray) autodiff.Value {
	return nn.SumSquaredError(step, pred, target)
}

// MeanSquaredError returns the mean of (pred_i - target_i)².
func MeanSquaredError(step *autodiff.Scope, pred, target autodiff.ValueArray) autodiff.Value {
	return nn.MeanSquaredError(step, pred, target)
}

// SoftmaxCrossEntropy returns -log softmax(logits)[class].
func SoftmaxCrossEntropy(step *autodiff.Scope, logits autodiff.ValueArray, class int) autodiff.Value {
	return nn.SoftmaxCrossEntropy(step, logits, class)
}

// NumParams returns the number of trainable scalars in m.
func NumParams(m Module) int {
	return nn.NumParams(m)
}
