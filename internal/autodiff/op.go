package autodiff

import (
	"fmt"
	"math"
)

// Op identifies the operation that produced a node and carries exactly the
// constants that operation needs.
//
// The set is closed: the unexported backward method means only this package
// can add variants, and a variant without a gradient rule does not compile.
//
// Supported operations:
//   - Source: leaf, no operands
//   - Add: a + b, d/da = 1, d/db = 1
//   - Mul: a * b, d/da = b, d/db = a
//   - Exp: exp(x), d/dx = exp(x)
//   - Pow: x^K, d/dx = K * x^(K-1) (no gradient to K)
//   - Relu: max(x, 0), d/dx = 1 if x > 0 else 0
//   - Log: ln(x), d/dx = 1/x
type Op interface {
	fmt.Stringer

	// Arity returns the number of operands.
	Arity() int

	// backward adds the node's contribution to the gradient of each operand.
	// out is the node being processed, preds its operands in construction order.
	backward(out *node, preds []Value)
}

// Source marks a leaf: an input or a trainable parameter.
type Source struct{}

// Add is binary addition.
type Add struct{}

// Mul is binary multiplication.
//
// Exactly two operands. The gradient of each operand is the other operand's
// value, so no division is involved and zero operands are safe.
type Mul struct{}

// Exp is the natural exponential.
type Exp struct{}

// Pow raises its operand to a constant real exponent.
type Pow struct {
	K float64
}

// Relu is the rectifier. The subgradient at exactly zero is zero.
type Relu struct{}

// Log is the natural logarithm.
type Log struct{}

func (Source) String() string { return "source" }
func (Add) String() string    { return "+" }
func (Mul) String() string    { return "*" }
func (Exp) String() string    { return "exp" }
func (p Pow) String() string  { return fmt.Sprintf("**%g", p.K) }
func (Relu) String() string   { return "relu" }
func (Log) String() string    { return "log" }

func (Source) Arity() int { return 0 }
func (Add) Arity() int    { return 2 }
func (Mul) Arity() int    { return 2 }
func (Exp) Arity() int    { return 1 }
func (Pow) Arity() int    { return 1 }
func (Relu) Arity() int   { return 1 }
func (Log) Arity() int    { return 1 }

func (Source) backward(*node, []Value) {}

func (Add) backward(out *node, preds []Value) {
	a, b := preds[0].mustNode(), preds[1].mustNode()
	a.grad += out.grad
	b.grad += out.grad
}

func (Mul) backward(out *node, preds []Value) {
	a, b := preds[0].mustNode(), preds[1].mustNode()
	// Read both values before writing: a and b may be the same node.
	av, bv := a.data, b.data
	a.grad += out.grad * bv
	b.grad += out.grad * av
}

func (Exp) backward(out *node, preds []Value) {
	x := preds[0].mustNode()
	x.grad += out.grad * out.data
}

func (p Pow) backward(out *node, preds []Value) {
	x := preds[0].mustNode()
	x.grad += out.grad * p.K * math.Pow(x.data, p.K-1)
}

func (Relu) backward(out *node, preds []Value) {
	x := preds[0].mustNode()
	if x.data > 0 {
		x.grad += out.grad
	}
}

func (Log) backward(out *node, preds []Value) {
	x := preds[0].mustNode()
	x.grad += out.grad / x.data
}
