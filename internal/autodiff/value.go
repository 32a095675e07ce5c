package autodiff

import "fmt"

// Value is a handle to one scalar in a computation graph.
//
// Values are small, comparable and cheap to copy. The zero Value is invalid.
// A Value stays usable until the owning Scope is Reset.
type Value struct {
	scope *Scope
	id    int32
	gen   uint32
}

// IsValid reports whether v refers to a live node.
func (v Value) IsValid() bool {
	return v.scope != nil && v.gen == v.scope.gen && int(v.id) < len(v.scope.nodes)
}

// Scope returns the scope that owns v.
func (v Value) Scope() *Scope {
	return v.scope
}

// mustNode resolves the handle. The returned pointer is only valid until the
// next allocation in the owning scope.
func (v Value) mustNode() *node {
	if v.scope == nil {
		panic("autodiff: use of zero Value")
	}
	if v.gen != v.scope.gen || int(v.id) >= len(v.scope.nodes) {
		panic("autodiff: use of Value after its scope was reset")
	}
	return &v.scope.nodes[v.id]
}

// Data returns the forward value.
func (v Value) Data() float64 {
	return v.mustNode().data
}

// Grad returns the accumulated gradient. Meaningful after Backward.
func (v Value) Grad() float64 {
	return v.mustNode().grad
}

// Op returns the operation that produced v.
func (v Value) Op() Op {
	return v.mustNode().op
}

// Predecessors returns a copy of the operands v was built from, in
// construction order. An operand used twice appears twice.
func (v Value) Predecessors() []Value {
	n := v.mustNode()
	preds := make([]Value, n.n)
	copy(preds, v.scope.edges[n.first:n.first+n.n])
	return preds
}

// preds returns the predecessor edges without copying.
func (v Value) preds(n *node) []Value {
	return v.scope.edges[n.first : n.first+n.n]
}

// SetData overwrites the value of a leaf.
//
// Only Source nodes may change after construction: every other node's value is
// a function of its operands. Optimizers use this between training steps.
func (v Value) SetData(x float64) {
	n := v.mustNode()
	if _, ok := n.op.(Source); !ok {
		panic(fmt.Sprintf("autodiff: SetData on %s node, only Source values are mutable", n.op))
	}
	n.data = x
}

// ZeroGrad resets the gradient accumulator to zero.
func (v Value) ZeroGrad() {
	v.mustNode().grad = 0
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.IsValid() {
		return "Value(invalid)"
	}
	n := v.mustNode()
	return fmt.Sprintf("Value(data=%g, grad=%g, op=%s)", n.data, n.grad, n.op)
}
