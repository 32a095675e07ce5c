// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Values are allocated in a Scope. Parameters live in a long-lived scope and
// each training step builds its graph in a child scope that is reset once the
// step is done.
//
// Example:
//
//	import "github.com/born-ml/grad/autodiff"
//
//	func main() {
//	    s := autodiff.NewScope()
//	    x := s.Source(10)
//	    z := s.Add(x, s.Mul(x, x))
//
//	    autodiff.Backward(z)
//	    fmt.Println(x.Grad()) // 21
//	}
package autodiff

import "github.com/born-ml/grad/internal/autodiff"

// Scope is an arena of values with a lifetime.
type Scope = autodiff.Scope

// NewScope creates a root scope.
func NewScope() *Scope {
	return autodiff.NewScope()
}

// Value is a handle to a node of the computation graph.
type Value = autodiff.Value

// ValueArray is an ordered list of values.
type ValueArray = autodiff.ValueArray

// Array3D is a channels × height × width block of values.
type Array3D = autodiff.Array3D

// Array4D is an out × in × kh × kw block of values.
type Array4D = autodiff.Array4D

// NewArray3D returns an Array3D with unset elements.
func NewArray3D(c, h, w int) Array3D {
	return autodiff.NewArray3D(c, h, w)
}

// Op identifies how a value was produced.
type Op = autodiff.Op

// Operation variants.
type (
	Source = autodiff.Source
	Add    = autodiff.Add
	Mul    = autodiff.Mul
	Exp    = autodiff.Exp
	Pow    = autodiff.Pow
	Relu   = autodiff.Relu
	Log    = autodiff.Log
)

// Backward computes d(root)/d(v) for every value reachable from root.
func Backward(root Value) {
	autodiff.Backward(root)
}

// ZeroGrad clears the gradient of every value reachable from root.
func ZeroGrad(root Value) {
	autodiff.ZeroGrad(root)
}

// TopoSort returns every value reachable from root, predecessors first.
func TopoSort(root Value) []Value {
	return autodiff.TopoSort(root)
}
