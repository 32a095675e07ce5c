package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// MaxPool2D is a 2D max pooling layer.
//
// Max pooling reduces spatial dimensions by taking the maximum value
// in each window. It has no learnable parameters.
//
// Input shape:  [channels, height, width]
// Output shape: [channels, out_height, out_width]
//
// Where:
//
//	out_height = (height - kernelSize) / stride + 1
//	out_width = (width - kernelSize) / stride + 1
//
// Each window max is a chain of Scope.Max nodes, so the gradient of an output
// flows to exactly one input of its window.
//
// Example:
//
//	pool := nn.NewMaxPool2D(2, 2)
//	out := pool.Apply(step, x) // [C, H/2, W/2]
type MaxPool2D struct {
	kernelSize int
	stride     int
}

// NewMaxPool2D creates a new 2D max pooling layer.
//
// Common patterns:
//   - NewMaxPool2D(2, 2): Standard 2x2 non-overlapping pooling
//   - NewMaxPool2D(3, 2): Overlapping 3x3 pooling with stride 2
func NewMaxPool2D(kernelSize, stride int) *MaxPool2D {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	return &MaxPool2D{kernelSize: kernelSize, stride: stride}
}

// Apply pools every channel of x in step.
func (m *MaxPool2D) Apply(step *autodiff.Scope, x autodiff.Array3D) autodiff.Array3D {
	c, h, w := x.Shape[0], x.Shape[1], x.Shape[2]
	if h < m.kernelSize || w < m.kernelSize {
		panic(fmt.Sprintf("maxpool2d: input %dx%d smaller than kernel %d", h, w, m.kernelSize))
	}
	size := m.ComputeOutputSize(h, w)
	out := autodiff.NewArray3D(c, size[0], size[1])
	for ch := range c {
		for i := range size[0] {
			for j := range size[1] {
				y0, x0 := i*m.stride, j*m.stride
				best := x.At(ch, y0, x0)
				for ky := range m.kernelSize {
					for kx := range m.kernelSize {
						if ky == 0 && kx == 0 {
							continue
						}
						best = step.Max(x.At(ch, y0+ky, x0+kx), best)
					}
				}
				out.Set(ch, i, j, best)
			}
		}
	}
	return out
}

// Parameters returns nothing; pooling has no learnable state.
func (m *MaxPool2D) Parameters() autodiff.ValueArray {
	return nil
}

// String returns a string representation of the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d)", m.kernelSize, m.stride)
}

// KernelSize returns the pooling window size.
func (m *MaxPool2D) KernelSize() int {
	return m.kernelSize
}

// Stride returns the pooling stride.
func (m *MaxPool2D) Stride() int {
	return m.stride
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (m *MaxPool2D) ComputeOutputSize(inputH, inputW int) [2]int {
	outH := (inputH-m.kernelSize)/m.stride + 1
	outW := (inputW-m.kernelSize)/m.stride + 1
	return [2]int{outH, outW}
}
