package nn

import (
	"fmt"

	"github.com/born-ml/grad/internal/autodiff"
)

// SmallCNNConfig describes a SmallCNN.
type SmallCNNConfig struct {
	InChannels int
	Height     int
	Width      int
	Channels   []int // output channels of each conv stage (default: [4, 8])
	KernelSize int   // default: 3
	Padding    int   // default: KernelSize/2
	Head       []int // widths of the classifier MLP after pooling (default: [OutFeatures])
	Init       InitScheme
}

// SmallCNN is a compact convolutional classifier:
//
//	[Conv2D -> ReLU] x len(Channels) -> GlobalAvgPool -> MLP head
//
// The pooled features make the head independent of the input resolution.
type SmallCNN struct {
	cfg   SmallCNNConfig
	convs []*Conv2D
	head  *MLP
}

// NewSmallCNN allocates all layers in params.
func NewSmallCNN(params *autodiff.Scope, cfg SmallCNNConfig, r Rand) *SmallCNN {
	if len(cfg.Channels) == 0 {
		cfg.Channels = []int{4, 8}
	}
	if cfg.KernelSize == 0 {
		cfg.KernelSize = 3
	}
	if cfg.Padding == 0 {
		cfg.Padding = cfg.KernelSize / 2
	}
	if len(cfg.Head) == 0 {
		panic("nn: SmallCNN needs at least one head layer")
	}
	if cfg.InChannels <= 0 || cfg.Height <= 0 || cfg.Width <= 0 {
		panic(fmt.Sprintf("nn: invalid SmallCNN input shape [%d %d %d]", cfg.InChannels, cfg.Height, cfg.Width))
	}

	convs := make([]*Conv2D, len(cfg.Channels))
	in := cfg.InChannels
	for i, out := range cfg.Channels {
		convs[i] = NewConv2D(params, Conv2DConfig{
			InChannels:  in,
			OutChannels: out,
			KernelSize:  cfg.KernelSize,
			Stride:      1,
			Padding:     cfg.Padding,
			Bias:        true,
			Init:        cfg.Init,
		}, r)
		in = out
	}

	return &SmallCNN{
		cfg:   cfg,
		convs: convs,
		head:  NewMLP(params, in, cfg.Head, r, cfg.Init),
	}
}

// Apply runs the network on a flattened C×H×W input.
func (m *SmallCNN) Apply(step *autodiff.Scope, x autodiff.ValueArray) autodiff.ValueArray {
	want := m.cfg.InChannels * m.cfg.Height * m.cfg.Width
	if len(x) != want {
		panic(fmt.Sprintf("nn: SmallCNN expects %d inputs, got %d", want, len(x)))
	}
	img := autodiff.Array3D{
		Shape:  [3]int{m.cfg.InChannels, m.cfg.Height, m.cfg.Width},
		Values: x,
	}
	return m.Apply3D(step, img)
}

// Apply3D runs the network on a feature map.
func (m *SmallCNN) Apply3D(step *autodiff.Scope, x autodiff.Array3D) autodiff.ValueArray {
	h := x
	for _, conv := range m.convs {
		h = Relu3D(step, conv.Apply(step, h))
	}
	return m.head.Apply(step, GlobalAvgPool(step, h))
}

// Parameters returns conv parameters stage by stage, then the head's.
func (m *SmallCNN) Parameters() autodiff.ValueArray {
	var params autodiff.ValueArray
	for _, c := range m.convs {
		params = append(params, c.Parameters()...)
	}
	return append(params, m.head.Parameters()...)
}

// Convs returns the convolution stages.
func (m *SmallCNN) Convs() []*Conv2D { return m.convs }

// Head returns the classifier.
func (m *SmallCNN) Head() *MLP { return m.head }
