package autodiff

// visitSet marks nodes seen during one traversal.
//
// It lives only for the duration of a single TopoSort call; nothing is stored
// on the nodes themselves, so a graph can be traversed any number of times.
type visitSet map[*Scope][]bool

// add marks v and reports whether it was unmarked before.
func (vs visitSet) add(v Value) bool {
	marks, ok := vs[v.scope]
	if !ok {
		marks = make([]bool, len(v.scope.nodes))
		vs[v.scope] = marks
	}
	if marks[v.id] {
		return false
	}
	marks[v.id] = true
	return true
}

// frame is one level of the explicit DFS stack.
type frame struct {
	v    Value
	next int // index of the next predecessor to descend into
}

// TopoSort returns every node reachable from root in DFS post-order: each node
// appears after all of its predecessors, and root comes last.
//
// Shared sub-expressions are emitted once, so the work is proportional to the
// number of distinct nodes, not to the number of edges or paths. The walk uses
// an explicit stack, so deep graphs (long accumulation chains) are fine.
func TopoSort(root Value) []Value {
	root.mustNode()

	visited := make(visitSet)
	order := make([]Value, 0, root.scope.Len())
	stack := []frame{{v: root}}
	visited.add(root)

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := top.v.mustNode()
		preds := top.v.preds(n)

		if top.next < len(preds) {
			p := preds[top.next]
			top.next++
			p.mustNode()
			if visited.add(p) {
				stack = append(stack, frame{v: p})
			}
			continue
		}

		order = append(order, top.v)
		stack = stack[:len(stack)-1]
	}

	return order
}
