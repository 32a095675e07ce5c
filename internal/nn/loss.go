package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/grad/internal/autodiff"
)

// SumSquaredError returns Σ (pred[i] - target[i])².
func SumSquaredError(step *autodiff.Scope, pred, target autodiff.ValueArray) autodiff.Value {
	checkSameLen("SumSquaredError", pred, target)

	loss := step.Source(0)
	for i := range pred {
		loss = step.Add(loss, step.Pow(step.Sub(pred[i], target[i]), 2))
	}
	return loss
}

// MeanSquaredError returns SumSquaredError divided by the number of elements.
func MeanSquaredError(step *autodiff.Scope, pred, target autodiff.ValueArray) autodiff.Value {
	sum := SumSquaredError(step, pred, target)
	return step.Div(sum, step.Source(float64(len(pred))))
}

// SoftmaxCrossEntropy returns -log(softmax(logits)[class]).
//
// Uses the log-sum-exp form with the largest logit subtracted as a constant:
//
//	loss = log(Σ exp(z_j - m)) - (z_class - m)
//
// m is a Source leaf, so no gradient flows through the shift (it cancels out).
func SoftmaxCrossEntropy(step *autodiff.Scope, logits autodiff.ValueArray, class int) autodiff.Value {
	if class < 0 || class >= len(logits) {
		panic(fmt.Sprintf("nn: class %d out of range for %d logits", class, len(logits)))
	}

	maxLogit := math.Inf(-1)
	for _, z := range logits {
		maxLogit = math.Max(maxLogit, z.Data())
	}
	m := step.Source(maxLogit)

	exps := make(autodiff.ValueArray, len(logits))
	for i, z := range logits {
		exps[i] = step.Exp(step.Sub(z, m))
	}
	logSum := step.Log(step.Sum(exps...))

	return step.Sub(logSum, step.Sub(logits[class], m))
}

// Softmax returns the normalized exponentials of logits as plain floats.
func Softmax(logits autodiff.ValueArray) []float64 {
	data := logits.Data()
	maxLogit := math.Inf(-1)
	for _, z := range data {
		maxLogit = math.Max(maxLogit, z)
	}
	sum := 0.0
	for i, z := range data {
		data[i] = math.Exp(z - maxLogit)
		sum += data[i]
	}
	for i := range data {
		data[i] /= sum
	}
	return data
}

// Argmax returns the index of the largest forward value.
func Argmax(xs autodiff.ValueArray) int {
	best := 0
	for i, v := range xs {
		if v.Data() > xs[best].Data() {
			best = i
		}
	}
	return best
}

func checkSameLen(name string, pred, target autodiff.ValueArray) {
	if len(pred) == 0 || len(pred) != len(target) {
		panic(fmt.Sprintf("nn: %s needs equal non-empty inputs, got %d and %d", name, len(pred), len(target)))
	}
}
