// Package autodiff implements reverse-mode automatic differentiation over scalars.
//
// Every arithmetic call allocates a node in a Scope, computes its forward value
// immediately and records the operands it was built from. The result is a DAG:
// one node may feed many consumers, and the same operand may appear twice in one
// node (x*x). Backward walks that DAG in reverse topological order and
// accumulates dL/dnode into every node reachable from the loss.
//
// Architecture:
//   - Scope: arena that owns nodes and their predecessor edges; Reset frees all at once
//   - Value: stable handle (scope, index, generation) into a Scope
//   - Op: closed set of operations, each carrying its own backward rule
//   - TopoSort / Backward: DFS post-order and the reverse sweep over it
//
// Lifetime:
//
//	params := autodiff.NewScope() // weights and biases, lives for the whole run
//	step := params.Child()        // one training step
//
//	for range iters {
//	    x := step.FromRaw(inputs)
//	    loss := step.Mul(w, x[0])   // w lives in params, loss in step
//	    autodiff.Backward(loss)
//	    w.SetData(w.Data() - lr*w.Grad())
//	    w.ZeroGrad()
//	    step.Reset()
//	}
//
// A node may only reference nodes of its own scope or of a scope that outlives it,
// so resetting a step never invalidates a parameter.
package autodiff
