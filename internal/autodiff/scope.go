package autodiff

// Scope is an arena of Value nodes.
//
// A scope owns every node created through its builder methods together with
// the predecessor edges of those nodes. Nodes are never freed one by one:
// Reset drops the whole scope in O(1), and handles created before the reset
// become stale (using one panics instead of silently reading a recycled slot).
//
// Scopes form a tree. A child scope is shorter-lived than its parent: nodes of
// a child may reference nodes of the parent, never the other way round.
//
// Scopes are not safe for concurrent use.
type Scope struct {
	parent *Scope
	depth  int
	gen    uint32
	nodes  []node
	edges  []Value // predecessor slab, indexed by node.first/node.n
}

// node is the record behind a Value handle.
type node struct {
	data  float64
	grad  float64
	op    Op
	first int32 // offset into Scope.edges
	n     int32 // number of predecessors
}

// NewScope creates a root scope, typically used for long-lived parameters.
func NewScope() *Scope {
	return &Scope{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
		edges: make([]Value, 0, 128),
	}
}

// Child creates a scope that is strictly outlived by s.
//
// Use one child per training step: build the forward graph in it, run
// Backward, update parameters, then Reset it.
func (s *Scope) Child() *Scope {
	c := NewScope()
	c.parent = s
	c.depth = s.depth + 1
	return c
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Len returns the number of live nodes owned by the scope.
func (s *Scope) Len() int {
	return len(s.nodes)
}

// Reset releases every node of the scope at once.
// Capacity is kept so the next step allocates nothing in the steady state.
func (s *Scope) Reset() {
	s.nodes = s.nodes[:0]
	s.edges = s.edges[:0]
	s.gen++
}

// Outlives reports whether nodes of s may be referenced from nodes of o,
// i.e. s is o itself or one of its ancestors.
func (s *Scope) Outlives(o *Scope) bool {
	for c := o; c != nil; c = c.parent {
		if c == s {
			return true
		}
	}
	return false
}

// push appends a node with the given predecessors and returns its handle.
func (s *Scope) push(data float64, op Op, preds ...Value) Value {
	for _, p := range preds {
		s.adopt(p)
	}
	first := len(s.edges)
	s.edges = append(s.edges, preds...)
	s.nodes = append(s.nodes, node{
		data:  data,
		op:    op,
		first: int32(first),
		n:     int32(len(preds)),
	})
	return Value{scope: s, id: int32(len(s.nodes) - 1), gen: s.gen}
}

// adopt checks that v may be used as an operand of a node owned by s.
func (s *Scope) adopt(v Value) {
	v.mustNode()
	if !v.scope.Outlives(s) {
		panic("autodiff: operand belongs to a scope that does not outlive the builder scope")
	}
}
