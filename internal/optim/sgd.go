package optim

import (
	"github.com/born-ml/grad/internal/autodiff"
	"gonum.org/v1/gonum/floats"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(mlp.Parameters(), optim.SGDConfig{
//	    LR:       0.05,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params   autodiff.ValueArray
	lr       float64
	momentum float64
	maxNorm  float64
	velocity []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR          float64 // Learning rate (default: 0.01)
	Momentum    float64 // Momentum factor (default: 0.0, range: [0, 1))
	MaxGradNorm float64 // Global gradient norm limit (default: 0, no clipping)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params autodiff.ValueArray, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
		maxNorm:  config.MaxGradNorm,
		velocity: make([]float64, len(params)),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	grads := gradsOf(s.params, s.maxNorm)

	update := grads
	if s.momentum != 0 {
		// velocity = momentum * velocity + grad
		floats.Scale(s.momentum, s.velocity)
		floats.Add(s.velocity, grads)
		update = s.velocity
	}

	data := s.params.Data()
	floats.AddScaled(data, -s.lr, update)
	s.params.SetData(data)
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	s.params.ZeroGrad()
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Velocity returns a copy of the momentum buffer, one entry per parameter.
func (s *SGD) Velocity() []float64 {
	return append([]float64(nil), s.velocity...)
}
