// Package optim implements optimization algorithms over parameter leaves.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - ClipGradNorm: global L2 gradient clipping
//
// Optimizers hold the parameter leaves themselves (autodiff.ValueArray). They
// read Grad() after autodiff.Backward and write the new value with SetData, so
// parameters are mutated in place and never rebuilt.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
//
//	for range steps {
//	    optimizer.ZeroGrad()
//	    loss := buildLoss(step, model)
//	    autodiff.Backward(loss)
//	    optimizer.Step()
//	    step.Reset()
//	}
package optim

import (
	"github.com/born-ml/grad/internal/autodiff"
	"gonum.org/v1/gonum/floats"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR / SetLR: Learning rate access for monitoring and scheduling
type Optimizer interface {
	// Step applies one update using the gradients currently stored on the
	// parameters.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Backward accumulates into leaves, so this must run between independent
	// steps unless accumulation across micro-batches is intended.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// ClipGradNorm rescales grads in place so their global L2 norm is at most
// maxNorm, and returns the norm before clipping. maxNorm <= 0 disables clipping.
func ClipGradNorm(grads []float64, maxNorm float64) float64 {
	norm := floats.Norm(grads, 2)
	if maxNorm > 0 && norm > maxNorm {
		floats.Scale(maxNorm/norm, grads)
	}
	return norm
}

// gradsOf collects the current gradients, clipped if maxNorm > 0.
func gradsOf(params autodiff.ValueArray, maxNorm float64) []float64 {
	grads := params.Grads()
	ClipGradNorm(grads, maxNorm)
	return grads
}
