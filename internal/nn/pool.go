package nn

import "github.com/born-ml/grad/internal/autodiff"

// GlobalAvgPool averages each channel of x over its spatial extent.
//
// Each channel is reduced with repeated Add followed by a single Div by the
// pixel count, so the output has one Value per channel.
func GlobalAvgPool(step *autodiff.Scope, x autodiff.Array3D) autodiff.ValueArray {
	pixels := step.Source(float64(x.Shape[1] * x.Shape[2]))

	out := make(autodiff.ValueArray, x.Shape[0])
	for c := range out {
		out[c] = step.Div(step.Sum(x.Channel(c)...), pixels)
	}
	return out
}
