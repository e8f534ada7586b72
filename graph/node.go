package graph

// NodeID is a stable handle for a node, assigned at insertion. It is
// the node's slot in insertion order, never a hash of the predictor, so
// node identity does not depend on whatever equality the predictor type
// defines.
type NodeID int

// Node is a registered predictor plus its declared upstream inputs and
// data-acceptance flag. Nodes are immutable once added.
type Node struct {
	id          NodeID
	predictor   Predictor
	inputs      []NodeID
	acceptsData bool
}

// ID returns the node's stable handle.
func (n Node) ID() NodeID { return n.id }

// Predictor returns the predictor this node wraps.
func (n Node) Predictor() Predictor { return n.predictor }

// Identifier returns the wrapped predictor's identifier.
func (n Node) Identifier() string { return n.predictor.Identifier() }

// Inputs returns the declared upstream nodes in declaration order.
func (n Node) Inputs() []NodeID {
	out := make([]NodeID, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// AcceptsData reports whether the node receives the original batch
// passed to Execute in addition to any upstream outputs.
func (n Node) AcceptsData() bool { return n.acceptsData }

// NodeOption configures a node at Add time.
type NodeOption func(*nodeSpec)

type nodeSpec struct {
	inputs      []NodeID
	acceptsData bool
	explicit    bool
}

// WithInputs declares the upstream nodes whose outputs feed this node.
// Order matters: dependency handles are threaded in declaration order.
func WithInputs(ids ...NodeID) NodeOption {
	return func(s *nodeSpec) {
		s.inputs = append(s.inputs, ids...)
	}
}

// WithAcceptsData overrides the automatic data-acceptance resolution.
// Without this option a node accepts the original batch exactly when it
// declares no inputs.
func WithAcceptsData(accepts bool) NodeOption {
	return func(s *nodeSpec) {
		s.acceptsData = accepts
		s.explicit = true
	}
}
