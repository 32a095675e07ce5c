package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// Stage is a module that maps a flat input to a flat output.
type Stage interface {
	Module
	Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray
}

// Sequential is a container module that chains stages together.
//
// Each stage's output becomes the next stage's input.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLayer(params, 3, 4, true, r, nn.InitUniform),
//	    nn.NewLayer(params, 4, 1, false, r, nn.InitUniform),
//	)
type Sequential struct {
	stages []Stage
}

// NewSequential creates a new Sequential container.
func NewSequential(stages ...Stage) *Sequential {
	return &Sequential{stages: stages}
}

// Apply runs every stage in order.
func (s *Sequential) Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray {
	out := x
	for _, stage := range s.stages {
		out = stage.Apply(step, out)
	}
	return out
}

// Parameters returns the parameters of all stages, in stage order.
func (s *Sequential) Parameters() autodiff.ValueArray {
	var params autodiff.ValueArray
	for _, stage := range s.stages {
		params = append(params, stage.Parameters()...)
	}
	return params
}

// Add appends a stage to the end of the sequence.
func (s *Sequential) Add(stage Stage) {
	s.stages = append(s.stages, stage)
}

// Len returns the number of stages.
func (s *Sequential) Len() int {
	return len(s.stages)
}

// Stage returns the stage at index.
func (s *Sequential) Stage(index int) Stage {
	if index < 0 || index >= len(s.stages) {
		panic(fmt.Sprintf("nn: Sequential stage index %d out of range [0, %d)", index, len(s.stages)))
	}
	return s.stages[index]
}

// ReLU applies relu element-wise.
type ReLU struct{}

// Apply returns relu(x_i) for every element.
func (ReLU) Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray {
	return ReluArray(step, x)
}

// Parameters returns nothing.
func (ReLU) Parameters() autodiff.ValueArray { return nil }
