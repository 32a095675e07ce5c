// Package data converts externally owned numeric arrays into leaf values.
//
// Inputs arrive as gorgonia tensors. Their backing storage stays with the
// caller: every element is copied into a fresh source leaf of the target
// scope, so later mutation of the tensor never reaches the graph.
package data

import (
	"errors"
	"fmt"

	"gorgonia.org/tensor"

	"github.com/born-ml/grad/internal/autodiff"
)

// Common errors.
var (
	ErrDType = errors.New("data: tensor dtype must be float64")
	ErrRank  = errors.New("data: unexpected tensor rank")
)

// Vector copies a 1-D tensor into one source leaf per element.
func Vector(s *autodiff.Scope, t tensor.Tensor) (autodiff.ValueArray, error) {
	if err := check(t, 1); err != nil {
		return nil, err
	}
	n := t.Shape()[0]
	out := make(autodiff.ValueArray, n)
	for i := range n {
		x, err := at(t, i)
		if err != nil {
			return nil, err
		}
		out[i] = s.Source(x)
	}
	return out, nil
}

// Rows copies a 2-D tensor into one leaf array per row.
func Rows(s *autodiff.Scope, t tensor.Tensor) ([]autodiff.ValueArray, error) {
	if err := check(t, 2); err != nil {
		return nil, err
	}
	shape := t.Shape()
	rows := make([]autodiff.ValueArray, shape[0])
	for i := range rows {
		row := make(autodiff.ValueArray, shape[1])
		for j := range row {
			x, err := at(t, i, j)
			if err != nil {
				return nil, err
			}
			row[j] = s.Source(x)
		}
		rows[i] = row
	}
	return rows, nil
}

// Image copies a 3-D channels x height x width tensor into an Array3D.
func Image(s *autodiff.Scope, t tensor.Tensor) (autodiff.Array3D, error) {
	if err := check(t, 3); err != nil {
		return autodiff.Array3D{}, err
	}
	shape := t.Shape()
	img := autodiff.NewArray3D(shape[0], shape[1], shape[2])
	for c := range shape[0] {
		for i := range shape[1] {
			for j := range shape[2] {
				x, err := at(t, c, i, j)
				if err != nil {
					return autodiff.Array3D{}, err
				}
				img.Set(c, i, j, s.Source(x))
			}
		}
	}
	return img, nil
}

// Raw returns the elements of a tensor of any rank in row-major order.
func Raw(t tensor.Tensor) ([]float64, error) {
	if t.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("%w: got %v", ErrDType, t.Dtype())
	}
	shape := t.Shape()
	out := make([]float64, 0, shape.TotalSize())
	coords := make([]int, len(shape))
	for range shape.TotalSize() {
		x, err := at(t, coords...)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
		for d := len(coords) - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < shape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out, nil
}

// RawRows returns the rows of a 2-D tensor as separate slices.
func RawRows(t tensor.Tensor) ([][]float64, error) {
	if err := check(t, 2); err != nil {
		return nil, err
	}
	flat, err := Raw(t)
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	rows := make([][]float64, shape[0])
	for i := range rows {
		rows[i] = flat[i*shape[1] : (i+1)*shape[1] : (i+1)*shape[1]]
	}
	return rows, nil
}

func check(t tensor.Tensor, rank int) error {
	if t.Dtype() != tensor.Float64 {
		return fmt.Errorf("%w: got %v", ErrDType, t.Dtype())
	}
	if t.Dims() != rank {
		return fmt.Errorf("%w: got %d dims (shape %v), want %d", ErrRank, t.Dims(), t.Shape(), rank)
	}
	return nil
}

func at(t tensor.Tensor, coords ...int) (float64, error) {
	v, err := t.At(coords...)
	if err != nil {
		return 0, fmt.Errorf("data: reading %v: %w", coords, err)
	}
	x, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: element is %T", ErrDType, v)
	}
	return x, nil
}
