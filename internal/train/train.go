// Package train drives the zero-grad, forward, backward, update loop over a
// model whose parameters live in a long-lived scope.
//
// Every step builds its graph in a child scope of the parameter scope and
// resets that scope once the optimizer has run, so memory use is bounded by
// the size of a single step's graph no matter how long training runs.
package train

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/born-ml/grad/internal/data"
	"github.com/born-ml/grad/internal/nn"
	"github.com/born-ml/grad/internal/optim"
	"github.com/born-ml/grad/internal/parallel"
	"github.com/born-ml/grad/internal/serialization"
)

// Model is a module that maps a flat input to a flat output.
type Model interface {
	nn.Module
	Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray
}

// Sample is one training example.
type Sample struct {
	Input  []float64
	Target []float64
}

// LossFunc builds the scalar loss of one prediction in step.
type LossFunc func(step *autodiff.Scope, pred, target autodiff.ValueArray) autodiff.Value

// CrossEntropy treats target as a one-hot vector and applies
// nn.SoftmaxCrossEntropy to the class it marks.
func CrossEntropy(step *autodiff.Scope, logits, target autodiff.ValueArray) autodiff.Value {
	return nn.SoftmaxCrossEntropy(step, logits, nn.Argmax(target))
}

// Config configures a Trainer.
type Config struct {
	Loss     LossFunc        // default nn.SumSquaredError
	Parallel parallel.Config // workers for Evaluate; zero value runs inline
}

// Trainer runs optimization steps for one model.
type Trainer struct {
	model  Model
	opt    optim.Optimizer
	loss   LossFunc
	params *autodiff.Scope
	step   *autodiff.Scope
	par    parallel.Config

	steps    int64
	lastLoss float64
}

// New creates a trainer for model, whose parameters must live in params.
func New(params *autodiff.Scope, model Model, opt optim.Optimizer, cfg Config) *Trainer {
	if cfg.Loss == nil {
		cfg.Loss = nn.SumSquaredError
	}
	return &Trainer{
		model:  model,
		opt:    opt,
		loss:   cfg.Loss,
		params: params,
		step:   params.Child(),
		par:    cfg.Parallel,
	}
}

// Step performs one update over samples and returns the total loss, summed
// over samples, measured before the update.
func (t *Trainer) Step(samples []Sample) float64 {
	if len(samples) == 0 {
		panic("train: Step needs at least one sample")
	}
	defer t.step.Reset()

	t.opt.ZeroGrad()
	losses := make(autodiff.ValueArray, len(samples))
	for i, s := range samples {
		pred := t.model.Apply(t.step, t.step.FromRaw(s.Input))
		losses[i] = t.loss(t.step, pred, t.step.FromRaw(s.Target))
	}
	total := t.step.Sum(losses...)
	autodiff.Backward(total)
	t.opt.Step()

	t.steps++
	t.lastLoss = total.Data()
	return t.lastLoss
}

// Fit runs one full-batch Step per epoch and returns the loss history.
// hook, if non-nil, is called after every epoch.
func (t *Trainer) Fit(samples []Sample, epochs int, hook func(epoch int, loss float64)) []float64 {
	history := make([]float64, 0, epochs)
	for epoch := range epochs {
		loss := t.Step(samples)
		history = append(history, loss)
		if hook != nil {
			hook(epoch, loss)
		}
	}
	return history
}

// Predict evaluates the model on x without touching gradients.
func (t *Trainer) Predict(x []float64) []float64 {
	defer t.step.Reset()
	return t.model.Apply(t.step, t.step.FromRaw(x)).Data()
}

// Evaluate returns the total loss over samples without touching gradients or
// parameters. Samples are split across workers, each building its graphs in a
// private child scope of the parameter scope.
func (t *Trainer) Evaluate(samples []Sample) float64 {
	partial := make([]float64, parallel.NumChunks(len(samples), t.par))
	parallel.Chunks(len(samples), func(chunk, start, end int) {
		step := t.params.Child()
		for _, s := range samples[start:end] {
			pred := t.model.Apply(step, step.FromRaw(s.Input))
			partial[chunk] += t.loss(step, pred, step.FromRaw(s.Target)).Data()
			step.Reset()
		}
	}, t.par)

	var total float64
	for _, p := range partial {
		total += p
	}
	return total
}

// StepScope returns the scope every step builds its graph in.
func (t *Trainer) StepScope() *autodiff.Scope { return t.step }

// Steps returns the number of completed steps.
func (t *Trainer) Steps() int64 { return t.steps }

// LastLoss returns the loss of the most recent step.
func (t *Trainer) LastLoss() float64 { return t.lastLoss }

// Save writes the model parameters and the current training position to path.
func (t *Trainer) Save(path, modelType string, epoch int) error {
	header := serialization.Header{
		ModelType: modelType,
		Checkpoint: &serialization.CheckpointMeta{
			Epoch:     epoch,
			Step:      t.steps,
			Loss:      t.lastLoss,
			Optimizer: optimizerName(t.opt),
			LR:        t.opt.GetLR(),
		},
	}
	if err := serialization.SaveFile(path, t.model.Parameters(), header); err != nil {
		return fmt.Errorf("train: save checkpoint: %w", err)
	}
	return nil
}

// Restore loads parameter values saved by Save into the model.
func (t *Trainer) Restore(path string) (*serialization.Checkpoint, error) {
	ckpt, err := serialization.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("train: load checkpoint: %w", err)
	}
	if err := ckpt.Apply(t.model.Parameters()); err != nil {
		return nil, fmt.Errorf("train: restore %s: %w", path, err)
	}
	if meta := ckpt.Header.Checkpoint; meta != nil {
		t.steps = meta.Step
		t.lastLoss = meta.Loss
	}
	return ckpt, nil
}

func optimizerName(opt optim.Optimizer) string {
	switch opt.(type) {
	case *optim.SGD:
		return "SGD"
	case *optim.Adam:
		return "Adam"
	default:
		return fmt.Sprintf("%T", opt)
	}
}

// SamplesFromTensors pairs the rows of two 2-D tensors into samples.
func SamplesFromTensors(xs, ys tensor.Tensor) ([]Sample, error) {
	inputs, err := data.RawRows(xs)
	if err != nil {
		return nil, fmt.Errorf("train: inputs: %w", err)
	}
	targets, err := data.RawRows(ys)
	if err != nil {
		return nil, fmt.Errorf("train: targets: %w", err)
	}
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("train: %d inputs but %d targets", len(inputs), len(targets))
	}
	samples := make([]Sample, len(inputs))
	for i := range samples {
		samples[i] = Sample{Input: inputs[i], Target: targets[i]}
	}
	return samples, nil
}
