package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// Conv2DConfig describes a 2D convolution.
type Conv2DConfig struct {
	InChannels  int
	OutChannels int
	KernelSize  int // square kernels only
	Stride      int // default: 1
	Padding     int // zero padding on every side
	Bias        bool
	Init        InitScheme
}

// Conv2D is a 2D convolution built from scalar Mul and Add.
//
// For every output channel and output pixel it accumulates
// weight*pixel over the receptive field and adds the channel bias. Padded
// positions are skipped rather than materialized as zero nodes.
//
// Shapes:
//   - input:  [in_channels, height, width]
//   - kernel: [out_channels, in_channels, kernel_size, kernel_size]
//   - output: [out_channels, out_height, out_width]
//
// Output size:
//
//	out_h = (height + 2*padding - kernel_size) / stride + 1
//	out_w = (width + 2*padding - kernel_size) / stride + 1
type Conv2D struct {
	cfg     Conv2DConfig
	weights autodiff.Array4D
	biases  autodiff.ValueArray
}

// NewConv2D allocates kernels and biases in params.
//
// Kernel weights are drawn from ±0.5 (InitUniform) or the Kaiming bound with
// fan_in = in_channels*kernel_size². Biases are drawn from ±0.5 when cfg.Bias is
// set and are zero leaves otherwise.
func NewConv2D(params *autodiff.Scope, cfg Conv2DConfig, r Rand) *Conv2D {
	if cfg.Stride == 0 {
		cfg.Stride = 1
	}
	if cfg.InChannels <= 0 || cfg.OutChannels <= 0 || cfg.KernelSize <= 0 || cfg.Stride < 0 || cfg.Padding < 0 {
		panic(fmt.Sprintf("nn: invalid Conv2D config %+v", cfg))
	}

	k := cfg.KernelSize
	weights := autodiff.NewArray4D(cfg.OutChannels, cfg.InChannels, k, k)
	bound := cfg.Init.bound(cfg.InChannels*k*k, 0.5)
	for i := range weights.Values {
		weights.Values[i] = params.Source(Uniform(r, -bound, bound))
	}

	biases := make(autodiff.ValueArray, cfg.OutChannels)
	for i := range biases {
		b := 0.0
		if cfg.Bias {
			b = Uniform(r, -0.5, 0.5)
		}
		biases[i] = params.Source(b)
	}

	return &Conv2D{cfg: cfg, weights: weights, biases: biases}
}

// OutputShape returns the spatial size of the output for an h×w input.
func (c *Conv2D) OutputShape(h, w int) (int, int) {
	k, p, s := c.cfg.KernelSize, c.cfg.Padding, c.cfg.Stride
	return (h+2*p-k)/s + 1, (w+2*p-k)/s + 1
}

// Apply convolves x in step.
//
// Panics if x has a different channel count than the layer or is smaller than
// the kernel after padding.
func (c *Conv2D) Apply(step *autodiff.Scope, x autodiff.Array3D) autodiff.Array3D {
	inC, h, w := x.Shape[0], x.Shape[1], x.Shape[2]
	if inC != c.cfg.InChannels {
		panic(fmt.Sprintf("nn: conv2d expects %d input channels, got %d", c.cfg.InChannels, inC))
	}

	outH, outW := c.OutputShape(h, w)
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("nn: conv2d input %dx%d too small for kernel %d with padding %d",
			h, w, c.cfg.KernelSize, c.cfg.Padding))
	}

	k, p, s := c.cfg.KernelSize, c.cfg.Padding, c.cfg.Stride
	out := autodiff.NewArray3D(c.cfg.OutChannels, outH, outW)

	for oc := range c.cfg.OutChannels {
		for ty := range outH {
			for tx := range outW {
				top, left := ty*s-p, tx*s-p

				acc := c.biases[oc]
				for ky := range k {
					i := top + ky
					if i < 0 || i >= h {
						continue
					}
					for kx := range k {
						j := left + kx
						if j < 0 || j >= w {
							continue
						}
						for ic := range inC {
							acc = step.Add(acc, step.Mul(x.At(ic, i, j), c.weights.At(oc, ic, ky, kx)))
						}
					}
				}
				out.Set(oc, ty, tx, acc)
			}
		}
	}

	return out
}

// Parameters returns the kernel weights followed by the biases.
func (c *Conv2D) Parameters() autodiff.ValueArray {
	params := make(autodiff.ValueArray, 0, len(c.weights.Values)+len(c.biases))
	params = append(params, c.weights.Values...)
	return append(params, c.biases...)
}

// Weights returns the kernel grid.
func (c *Conv2D) Weights() autodiff.Array4D { return c.weights }

// Biases returns one bias leaf per output channel.
func (c *Conv2D) Biases() autodiff.ValueArray { return c.biases }

// Config returns the layer configuration with defaults applied.
func (c *Conv2D) Config() Conv2DConfig { return c.cfg }
