package autodiff

// Backward computes d(root)/d(node) for every node reachable from root.
//
// Algorithm:
//  1. Order the reachable nodes with TopoSort
//  2. Zero the gradient of every interior (non-Source) node and set root.grad = 1
//  3. Walk the order in reverse: a node is processed only after every consumer
//     has added its share, then its op adds into each predecessor
//
// Gradients of Source nodes are only ever added to. Calling Backward again
// without zeroing them accumulates: two passes over the same graph leave
// exactly twice the single-pass gradient on every leaf. Interior gradients are
// recomputed on each pass. Zero the parameters (ZeroGrad) between independent
// optimizer steps.
//
// Example:
//
//	s := autodiff.NewScope()
//	a, b, c := s.Source(10), s.Source(20), s.Source(30)
//	z := s.Add(a, s.Mul(b, c)) // 610
//	autodiff.Backward(z)
//	b.Grad() // 30
func Backward(root Value) {
	order := TopoSort(root)

	for _, v := range order {
		n := v.mustNode()
		if _, leaf := n.op.(Source); !leaf {
			n.grad = 0
		}
	}
	root.mustNode().grad = 1

	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		n := v.mustNode()
		n.op.backward(n, v.preds(n))
	}
}

// ZeroGrad resets the gradient of every node reachable from root.
func ZeroGrad(root Value) {
	for _, v := range TopoSort(root) {
		v.ZeroGrad()
	}
}
