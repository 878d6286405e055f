// SPDX-License-Identifier: EPL-2.0

// Package graph stores the processing graph's nodes and connections and
// produces the topological order the scheduler walks every block. The
// graph is mutated only by the thread that also schedules it (commands
// are drained and applied at a block boundary, never concurrently with a
// callback in flight), so no internal locking is needed.
package graph

import (
	"fmt"

	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/transport"
)

// Edge connects one node's output to another node's input.
type Edge struct {
	ID ids.ID

	SourceID     ids.ID
	SourceOutput int

	DestID    ids.ID
	DestInput int
}

type nodeEntry struct {
	node transport.DspNode

	// outgoing and incoming hold this node's edge ids. They are kept in
	// sync incrementally on AddEdge/RemoveEdge rather than recomputed,
	// since a node's degree is typically small next to the graph size.
	outgoing []ids.ID
	incoming []ids.ID
}

// Graph is the node/edge store backing one engine's processing graph.
type Graph struct {
	nodes map[ids.ID]*nodeEntry
	edges map[ids.ID]Edge

	order []ids.ID
	dirty bool
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[ids.ID]*nodeEntry),
		edges: make(map[ids.ID]Edge),
		dirty: true,
	}
}

// AddNode registers node under its own ID, marking the cached order stale.
func (g *Graph) AddNode(node transport.DspNode) error {
	id := node.ID()
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateNode, id)
	}
	g.nodes[id] = &nodeEntry{node: node}
	g.dirty = true
	return nil
}

// RemoveNode deletes id and every edge touching it, returning the deleted
// edge ids so the caller can hand the retired edges to the GC queue.
func (g *Graph) RemoveNode(id ids.ID) ([]ids.ID, error) {
	entry, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownNode, id)
	}

	removed := make([]ids.ID, 0, len(entry.outgoing)+len(entry.incoming))
	for _, edgeID := range append(append([]ids.ID{}, entry.outgoing...), entry.incoming...) {
		if _, ok := g.edges[edgeID]; ok {
			g.removeEdgeUnchecked(edgeID)
			removed = append(removed, edgeID)
		}
	}

	delete(g.nodes, id)
	g.dirty = true
	return removed, nil
}

// Node returns the node registered under id.
func (g *Graph) Node(id ids.ID) (transport.DspNode, bool) {
	entry, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return entry.node, true
}

// NodeCount reports how many nodes are currently registered.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// AddEdge connects sourceID's sourceOutput to destID's destInput under
// edgeID, which the caller allocates (typically via ids.Next() on the
// control thread, before the command carrying it is even queued) so that
// it can be used to remove the connection later without waiting for the
// realtime thread to report back.
func (g *Graph) AddEdge(edgeID, sourceID ids.ID, sourceOutput int, destID ids.ID, destInput int) error {
	src, ok := g.nodes[sourceID]
	if !ok {
		return fmt.Errorf("%w: source %v", ErrUnknownNode, sourceID)
	}
	dst, ok := g.nodes[destID]
	if !ok {
		return fmt.Errorf("%w: dest %v", ErrUnknownNode, destID)
	}

	g.edges[edgeID] = Edge{
		ID:           edgeID,
		SourceID:     sourceID,
		SourceOutput: sourceOutput,
		DestID:       destID,
		DestInput:    destInput,
	}
	src.outgoing = append(src.outgoing, edgeID)
	dst.incoming = append(dst.incoming, edgeID)
	g.dirty = true
	return nil
}

// RemoveEdge deletes edgeID.
func (g *Graph) RemoveEdge(edgeID ids.ID) error {
	if _, ok := g.edges[edgeID]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownEdge, edgeID)
	}
	g.removeEdgeUnchecked(edgeID)
	g.dirty = true
	return nil
}

func (g *Graph) removeEdgeUnchecked(edgeID ids.ID) {
	edge := g.edges[edgeID]
	if src, ok := g.nodes[edge.SourceID]; ok {
		src.outgoing = removeID(src.outgoing, edgeID)
	}
	if dst, ok := g.nodes[edge.DestID]; ok {
		dst.incoming = removeID(dst.incoming, edgeID)
	}
	delete(g.edges, edgeID)
}

func removeID(s []ids.ID, target ids.ID) []ids.ID {
	for i, id := range s {
		if id == target {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// IncomingEdges returns the edges terminating at id.
func (g *Graph) IncomingEdges(id ids.ID) []Edge {
	entry, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]Edge, 0, len(entry.incoming))
	for _, edgeID := range entry.incoming {
		out = append(out, g.edges[edgeID])
	}
	return out
}

// OutgoingEdges returns the edges originating at id.
func (g *Graph) OutgoingEdges(id ids.ID) []Edge {
	entry, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]Edge, 0, len(entry.outgoing))
	for _, edgeID := range entry.outgoing {
		out = append(out, g.edges[edgeID])
	}
	return out
}

// TopologicalOrder returns the node ids in an order where every node
// appears after all nodes feeding its inputs, recomputing via Kahn's
// algorithm only when the graph has been mutated since the last call.
func (g *Graph) TopologicalOrder() ([]ids.ID, error) {
	if !g.dirty {
		return g.order, nil
	}

	n := len(g.nodes)
	inDegree := make(map[ids.ID]int, n)
	for id, entry := range g.nodes {
		inDegree[id] = len(entry.incoming)
	}

	ready := make([]ids.ID, 0, n)
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]ids.ID, 0, n)
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		order = append(order, id)

		for _, edgeID := range g.nodes[id].outgoing {
			dest := g.edges[edgeID].DestID
			inDegree[dest]--
			if inDegree[dest] == 0 {
				ready = append(ready, dest)
			}
		}
	}

	if len(order) != n {
		return nil, ErrCycleDetected
	}

	g.order = order
	g.dirty = false
	return g.order, nil
}
