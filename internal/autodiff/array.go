package autodiff

import "fmt"

// ValueArray is an ordered sequence of Values: the weights of a neuron, the
// outputs of a layer, or one input sample.
//
// Elements are references. Building a ValueArray never copies nodes, and the
// same Value may appear in many arrays.
type ValueArray []Value

// FromRaw creates one Source leaf per element of xs.
func (s *Scope) FromRaw(xs []float64) ValueArray {
	out := make(ValueArray, len(xs))
	for i, x := range xs {
		out[i] = s.Source(x)
	}
	return out
}

// Data returns the forward values in order.
func (a ValueArray) Data() []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v.Data()
	}
	return out
}

// Grads returns the gradients in order.
func (a ValueArray) Grads() []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v.Grad()
	}
	return out
}

// SetData writes xs into the leaves of a. Panics on a length mismatch.
func (a ValueArray) SetData(xs []float64) {
	if len(xs) != len(a) {
		panic(fmt.Sprintf("autodiff: SetData length %d, want %d", len(xs), len(a)))
	}
	for i, v := range a {
		v.SetData(xs[i])
	}
}

// ZeroGrad zeroes every element's gradient.
func (a ValueArray) ZeroGrad() {
	for _, v := range a {
		v.ZeroGrad()
	}
}

// Array3D is a row-major C×H×W grid of Values (feature maps).
type Array3D struct {
	Shape  [3]int
	Values ValueArray
}

// NewArray3D allocates an empty grid. Elements are zero Values until Set.
func NewArray3D(c, h, w int) Array3D {
	return Array3D{Shape: [3]int{c, h, w}, Values: make(ValueArray, c*h*w)}
}

// FromRaw3D creates Source leaves for a row-major C×H×W buffer.
func (s *Scope) FromRaw3D(data []float64, c, h, w int) Array3D {
	if len(data) != c*h*w {
		panic(fmt.Sprintf("autodiff: FromRaw3D got %d values for shape [%d %d %d]", len(data), c, h, w))
	}
	return Array3D{Shape: [3]int{c, h, w}, Values: s.FromRaw(data)}
}

func (a Array3D) index(c, i, j int) int {
	if c < 0 || c >= a.Shape[0] || i < 0 || i >= a.Shape[1] || j < 0 || j >= a.Shape[2] {
		panic(fmt.Sprintf("autodiff: index [%d %d %d] out of range for shape %v", c, i, j, a.Shape))
	}
	return (c*a.Shape[1]+i)*a.Shape[2] + j
}

// At returns the element at channel c, row i, column j.
func (a Array3D) At(c, i, j int) Value {
	return a.Values[a.index(c, i, j)]
}

// Set stores v at channel c, row i, column j.
func (a Array3D) Set(c, i, j int, v Value) {
	a.Values[a.index(c, i, j)] = v
}

// Channel returns the H*W elements of channel c, row-major.
func (a Array3D) Channel(c int) ValueArray {
	size := a.Shape[1] * a.Shape[2]
	return a.Values[c*size : (c+1)*size]
}

// Flatten returns the elements in C, H, W order.
func (a Array3D) Flatten() ValueArray {
	return a.Values
}

// Array4D is a row-major O×I×KH×KW grid of Values (convolution kernels).
type Array4D struct {
	Shape  [4]int
	Values ValueArray
}

// NewArray4D allocates an empty grid.
func NewArray4D(o, i, kh, kw int) Array4D {
	return Array4D{Shape: [4]int{o, i, kh, kw}, Values: make(ValueArray, o*i*kh*kw)}
}

// At returns the element at [o, i, y, x].
func (a Array4D) At(o, i, y, x int) Value {
	return a.Values[((o*a.Shape[1]+i)*a.Shape[2]+y)*a.Shape[3]+x]
}

// Set stores v at [o, i, y, x].
func (a Array4D) Set(o, i, y, x int, v Value) {
	a.Values[((o*a.Shape[1]+i)*a.Shape[2]+y)*a.Shape[3]+x] = v
}
