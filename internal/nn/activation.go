package nn

import "github.com/born-ml/grad/internal/autodiff"

// ReluArray applies ReLU element-wise.
func ReluArray(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray {
	out := make(autodiff.ValueArray, len(x))
	for i, v := range x {
		out[i] = step.Relu(v)
	}
	return out
}

// Relu3D applies ReLU to every element of a feature map.
func Relu3D(step *autodiff.Scope, x autodiff.Array3D) autodiff.Array3D {
	return autodiff.Array3D{Shape: x.Shape, Values: ReluArray(step, x.Values)}
}
