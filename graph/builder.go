package graph

import (
	"github.com/kbukum/modelgraph/errors"
)

// Builder accumulates graph nodes during the build phase. It is the
// only mutable structure in the package and expects a single writer;
// call Freeze to obtain an immutable snapshot for execution.
type Builder struct {
	nodes      []Node
	registered map[string]NodeID // predictor identifier -> node
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		registered: make(map[string]NodeID),
	}
}

// Add registers a predictor as a new node and returns its stable id.
//
// Every declared input must already be a registered node, so a node can
// only depend on nodes added before it: forward references are rejected
// and the insertion order is a valid topological order by construction.
// A predictor (by identifier) may only be added once.
//
// Failures leave the builder unchanged; there is no partial insertion.
func (b *Builder) Add(p Predictor, opts ...NodeOption) (NodeID, error) {
	if p == nil {
		return 0, errors.InvalidInput("predictor", "predictor must not be nil")
	}
	name := p.Identifier()
	if name == "" {
		return 0, errors.MissingField("identifier")
	}
	if _, exists := b.registered[name]; exists {
		return 0, errors.NodeExists(name)
	}

	var spec nodeSpec
	for _, opt := range opts {
		opt(&spec)
	}

	for _, in := range spec.inputs {
		if in < 0 || int(in) >= len(b.nodes) {
			return 0, errors.UnknownInput(name, int(in))
		}
	}

	if !spec.explicit {
		spec.acceptsData = len(spec.inputs) == 0
	} else if !spec.acceptsData && len(spec.inputs) == 0 {
		// A node with neither upstream inputs nor original data has no
		// input at all.
		return 0, errors.InvalidInput("accepts_data",
			"a node with no inputs must accept the original data")
	}

	id := NodeID(len(b.nodes))
	inputs := make([]NodeID, len(spec.inputs))
	copy(inputs, spec.inputs)

	b.nodes = append(b.nodes, Node{
		id:          id,
		predictor:   p,
		inputs:      inputs,
		acceptsData: spec.acceptsData,
	})
	b.registered[name] = id

	return id, nil
}

// Len returns the number of registered nodes.
func (b *Builder) Len() int { return len(b.nodes) }

// Lookup returns the node id registered for a predictor identifier.
func (b *Builder) Lookup(identifier string) (NodeID, bool) {
	id, ok := b.registered[identifier]
	return id, ok
}

// Freeze validates the accumulated nodes and returns an immutable Graph
// snapshot. The builder stays usable afterwards; later Add calls never
// affect a previously returned snapshot.
func (b *Builder) Freeze() (*Graph, error) {
	if len(b.nodes) == 0 {
		return nil, errors.EmptyGraph()
	}

	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	for i := range nodes {
		inputs := make([]NodeID, len(nodes[i].inputs))
		copy(inputs, nodes[i].inputs)
		nodes[i].inputs = inputs
	}

	return newGraph(nodes)
}
