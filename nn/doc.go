// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network modules built on scalar autodiff values.
//
// # Overview
//
// This package contains:
//   - Neuron, Layer, MLP: fully connected networks
//   - Conv2D, GlobalAvgPool, SmallCNN: convolutional networks
//   - SumSquaredError, MeanSquaredError, SoftmaxCrossEntropy: losses
//
// # Basic Usage
//
//	params := autodiff.NewScope()
//	mlp := nn.NewMLP(params, 3, []int{4, 4, 1}, nn.NewRand(42), nn.InitUniform)
//
//	step := params.Child()
//	pred := mlp.Apply(step, step.FromRaw([]float64{2, 3, -1}))
//	loss := nn.SumSquaredError(step, pred, step.FromRaw([]float64{1}))
//	autodiff.Backward(loss)
//	step.Reset()
package nn
