package graph

import (
	"github.com/kbukum/modelgraph/errors"
)

// Graph is an immutable snapshot of a built DAG. It is safe for
// concurrent traversal; all mutation happens in the Builder before
// Freeze.
type Graph struct {
	nodes      []Node
	dependents [][]NodeID // node -> nodes that declare it as input
	levels     [][]NodeID // Kahn levels; level n depends only on levels < n
	sinks      []NodeID   // nodes with no dependents, in insertion order
}

// newGraph computes dependents, levels, and sinks for a validated node
// list. Kahn's algorithm groups nodes by dependency level; nodes within
// the same level have no dependency relationship. A cycle cannot be
// built through the Builder, but the check stays so that a hand-rolled
// node list cannot smuggle one in.
func newGraph(nodes []Node) (*Graph, error) {
	inDegree := make([]int, len(nodes))
	dependents := make([][]NodeID, len(nodes))

	for _, n := range nodes {
		for _, in := range n.inputs {
			inDegree[n.id]++
			dependents[in] = append(dependents[in], n.id)
		}
	}

	var queue []NodeID
	for id := range nodes {
		if inDegree[id] == 0 {
			queue = append(queue, NodeID(id))
		}
	}

	var levels [][]NodeID
	visited := 0

	for len(queue) > 0 {
		levels = append(levels, queue)
		visited += len(queue)

		var next []NodeID
		for _, id := range queue {
			for _, dep := range dependents[id] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		queue = next
	}

	if visited != len(nodes) {
		return nil, errors.Cycle(visited, len(nodes))
	}

	var sinks []NodeID
	for id := range nodes {
		if len(dependents[id]) == 0 {
			sinks = append(sinks, NodeID(id))
		}
	}

	return &Graph{
		nodes:      nodes,
		dependents: dependents,
		levels:     levels,
		sinks:      sinks,
	}, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node for an id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Nodes returns all nodes in insertion order, which is also a valid
// topological order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Dependents returns the nodes that declare id as an input.
func (g *Graph) Dependents(id NodeID) []NodeID {
	if id < 0 || int(id) >= len(g.dependents) {
		return nil
	}
	out := make([]NodeID, len(g.dependents[id]))
	copy(out, g.dependents[id])
	return out
}

// Levels groups nodes by dependency level. Nodes within the same level
// have no dependency relationship and could run concurrently.
func (g *Graph) Levels() [][]NodeID {
	out := make([][]NodeID, len(g.levels))
	for i, level := range g.levels {
		out[i] = make([]NodeID, len(level))
		copy(out[i], level)
	}
	return out
}

// Sinks returns the nodes with no downstream consumers, in insertion
// order.
func (g *Graph) Sinks() []NodeID {
	out := make([]NodeID, len(g.sinks))
	copy(out, g.sinks)
	return out
}
