package nn_test

import (
	"testing"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/born-ml/grad/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// newFixedConv builds a conv layer and overwrites its parameters.
func newFixedConv(params *autodiff.Scope, cfg nn.Conv2DConfig, weights, biases []float64) *nn.Conv2D {
	conv := nn.NewConv2D(params, cfg, nn.NewRand(0))
	conv.Weights().Values.SetData(weights)
	conv.Biases().SetData(biases)
	return conv
}

// naiveConv is a plain float reference implementation.
func naiveConv(x []float64, c, h, w int, k []float64, oc, ks, stride, pad int, b []float64) ([]float64, int, int) {
	outH := (h+2*pad-ks)/stride + 1
	outW := (w+2*pad-ks)/stride + 1
	out := make([]float64, oc*outH*outW)
	for o := range oc {
		for y := range outH {
			for xx := range outW {
				sum := b[o]
				for ci := range c {
					for ky := range ks {
						for kx := range ks {
							i, j := y*stride-pad+ky, xx*stride-pad+kx
							if i < 0 || i >= h || j < 0 || j >= w {
								continue
							}
							sum += x[(ci*h+i)*w+j] * k[((o*c+ci)*ks+ky)*ks+kx]
						}
					}
				}
				out[(o*outH+y)*outW+xx] = sum
			}
		}
	}
	return out, outH, outW
}

func TestConv2D_ForwardNoPadding(t *testing.T) {
	params := autodiff.NewScope()
	conv := newFixedConv(params, nn.Conv2DConfig{InChannels: 1, OutChannels: 1, KernelSize: 2},
		[]float64{1, 0, 0, -1}, []float64{0.5})

	step := params.Child()
	x := step.FromRaw3D([]float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, 1, 3, 3)
	out := conv.Apply(step, x)

	require.Equal(t, [3]int{1, 2, 2}, out.Shape)
	// x[i][j] - x[i+1][j+1] + 0.5 = -4 + 0.5 everywhere
	assert.Equal(t, []float64{-3.5, -3.5, -3.5, -3.5}, out.Flatten().Data())
}

func TestConv2D_MatchesReference(t *testing.T) {
	tests := []struct {
		name            string
		c, h, w, oc, ks int
		stride, padding int
	}{
		{"same_padding", 2, 5, 4, 3, 3, 1, 1},
		{"strided", 1, 6, 6, 2, 2, 2, 0},
		{"strided_padded", 3, 4, 5, 2, 3, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := nn.NewRand(9)
			params := autodiff.NewScope()
			conv := nn.NewConv2D(params, nn.Conv2DConfig{
				InChannels: tt.c, OutChannels: tt.oc, KernelSize: tt.ks,
				Stride: tt.stride, Padding: tt.padding, Bias: true,
			}, r)

			xRaw := make([]float64, tt.c*tt.h*tt.w)
			for i := range xRaw {
				xRaw[i] = nn.Uniform(r, -1, 1)
			}

			step := params.Child()
			out := conv.Apply(step, step.FromRaw3D(xRaw, tt.c, tt.h, tt.w))

			want, outH, outW := naiveConv(xRaw, tt.c, tt.h, tt.w,
				conv.Weights().Values.Data(), tt.oc, tt.ks, tt.stride, tt.padding, conv.Biases().Data())
			assert.Equal(t, [3]int{tt.oc, outH, outW}, out.Shape)
			assert.InDeltaSlice(t, want, out.Flatten().Data(), 1e-12)
		})
	}
}

// TestConv2D_PaddingNotMaterialized checks that skipped padding adds no nodes.
func TestConv2D_PaddingNotMaterialized(t *testing.T) {
	params := autodiff.NewScope()
	conv := newFixedConv(params, nn.Conv2DConfig{InChannels: 1, OutChannels: 1, KernelSize: 3, Padding: 1},
		[]float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, []float64{0})

	step := params.Child()
	x := step.FromRaw3D([]float64{1, 2, 3, 4}, 1, 2, 2)
	before := step.Len()
	out := conv.Apply(step, x)

	// every output pixel sees all 4 real pixels: 4 Mul + 4 Add each
	assert.Equal(t, 4*8, step.Len()-before)
	assert.Equal(t, []float64{10, 10, 10, 10}, out.Flatten().Data())
}

// TestConv2D_GradientCheck compares kernel gradients with finite differences.
func TestConv2D_GradientCheck(t *testing.T) {
	r := nn.NewRand(5)
	xRaw := make([]float64, 2*4*4)
	for i := range xRaw {
		xRaw[i] = nn.Uniform(r, -1, 1)
	}
	cfg := nn.Conv2DConfig{InChannels: 2, OutChannels: 2, KernelSize: 3, Padding: 1, Bias: true}

	params := autodiff.NewScope()
	conv := nn.NewConv2D(params, cfg, r)
	w0 := conv.Parameters().Data()

	loss := func(step *autodiff.Scope) autodiff.Value {
		out := conv.Apply(step, step.FromRaw3D(xRaw, 2, 4, 4))
		pooled := nn.GlobalAvgPool(step, out)
		return step.Add(step.Square(pooled[0]), step.Mul(pooled[1], step.Source(3)))
	}

	step := params.Child()
	autodiff.Backward(loss(step))
	analytic := conv.Parameters().Grads()

	numeric := fd.Gradient(nil, func(p []float64) float64 {
		conv.Parameters().SetData(p)
		s := params.Child()
		return loss(s).Data()
	}, w0, &fd.Settings{Formula: fd.Central})

	assert.InDeltaSlice(t, numeric, analytic, 1e-6)
}

func TestConv2D_ChannelMismatchPanics(t *testing.T) {
	params := autodiff.NewScope()
	conv := nn.NewConv2D(params, nn.Conv2DConfig{InChannels: 3, OutChannels: 1, KernelSize: 1}, nn.NewRand(0))
	step := params.Child()

	assert.Panics(t, func() { conv.Apply(step, step.FromRaw3D(make([]float64, 4), 1, 2, 2)) })
	assert.Panics(t, func() { nn.NewConv2D(params, nn.Conv2DConfig{InChannels: 1}, nn.NewRand(0)) })
}

func TestConv2D_Parameters(t *testing.T) {
	params := autodiff.NewScope()
	conv := nn.NewConv2D(params, nn.Conv2DConfig{InChannels: 2, OutChannels: 4, KernelSize: 3}, nn.NewRand(0))

	assert.Len(t, conv.Parameters(), 4*2*3*3+4)
	assert.Equal(t, 1, conv.Config().Stride)
	assert.Equal(t, make([]float64, 4), conv.Biases().Data(), "biases are zero without Bias")
}

func TestGlobalAvgPool(t *testing.T) {
	s := autodiff.NewScope()
	x := s.FromRaw3D([]float64{
		1, 2, 3, 4,
		10, 20, 30, 40,
	}, 2, 2, 2)

	pooled := nn.GlobalAvgPool(s, x)
	require.Len(t, pooled, 2)
	assert.InDelta(t, 2.5, pooled[0].Data(), 1e-12)
	assert.InDelta(t, 25.0, pooled[1].Data(), 1e-12)

	autodiff.Backward(pooled[1])
	for _, v := range x.Channel(1) {
		assert.InDelta(t, 0.25, v.Grad(), 1e-12)
	}
	for _, v := range x.Channel(0) {
		assert.Equal(t, 0.0, v.Grad())
	}
}
