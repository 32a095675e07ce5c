// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms over parameter leaves.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - ClipGradNorm: global L2 gradient clipping
//
// # Basic Usage
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	for range steps {
//	    optimizer.ZeroGrad()
//	    loss := buildLoss(step, model)
//	    autodiff.Backward(loss)
//	    optimizer.Step()
//	    step.Reset()
//	}
package optim
