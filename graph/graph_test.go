// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

type stubNode struct {
	id ids.ID
}

func (n *stubNode) ID() ids.ID     { return n.id }
func (n *stubNode) NumInputs() int { return 1 }
func (n *stubNode) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
}
func (n *stubNode) Param(paramID ids.ID) (*param.Evaluator, bool) { return nil, false }

func newStubNode() *stubNode { return &stubNode{id: ids.Next()} }

func TestAddNodeRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	g := New()
	n := newStubNode()
	require.NoError(t, g.AddNode(n))
	require.ErrorIs(t, g.AddNode(n), ErrDuplicateNode)
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	t.Parallel()

	g := New()
	a, b, c := newStubNode(), newStubNode(), newStubNode()
	for _, n := range []*stubNode{a, b, c} {
		require.NoError(t, g.AddNode(n))
	}
	require.NoError(t, g.AddEdge(ids.Next(), a.ID(), 0, b.ID(), 0))
	require.NoError(t, g.AddEdge(ids.Next(), b.ID(), 0, c.ID(), 0))

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[ids.ID]int, 3)
	for i, id := range order {
		pos[id] = i
	}
	require.Less(t, pos[a.ID()], pos[b.ID()], "order %v does not respect a->b->c", order)
	require.Less(t, pos[b.ID()], pos[c.ID()], "order %v does not respect a->b->c", order)
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	t.Parallel()

	g := New()
	a, b := newStubNode(), newStubNode()
	g.AddNode(a)
	g.AddNode(b)
	g.AddEdge(ids.Next(), a.ID(), 0, b.ID(), 0)
	g.AddEdge(ids.Next(), b.ID(), 0, a.ID(), 0)

	_, err := g.TopologicalOrder()
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestTopologicalOrderIsCachedUntilMutation(t *testing.T) {
	t.Parallel()

	g := New()
	a := newStubNode()
	g.AddNode(a)

	first, err := g.TopologicalOrder()
	require.NoError(t, err)

	b := newStubNode()
	g.AddNode(b)
	g.AddEdge(ids.Next(), a.ID(), 0, b.ID(), 0)

	second, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Greater(t, len(second), len(first), "expected recomputed order to grow after mutation")
}

func TestRemoveNodeReturnsRetiredEdges(t *testing.T) {
	t.Parallel()

	g := New()
	a, b, c := newStubNode(), newStubNode(), newStubNode()
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	g.AddEdge(ids.Next(), a.ID(), 0, b.ID(), 0)
	g.AddEdge(ids.Next(), b.ID(), 0, c.ID(), 0)

	retired, err := g.RemoveNode(b.ID())
	require.NoError(t, err)
	require.Len(t, retired, 2)
	require.Empty(t, g.IncomingEdges(c.ID()), "expected c to have no incoming edges after b removed")

	_, ok := g.Node(b.ID())
	require.False(t, ok, "expected b to be gone from the graph")
}

func TestAddEdgeRejectsUnknownNode(t *testing.T) {
	t.Parallel()

	g := New()
	a := newStubNode()
	g.AddNode(a)

	err := g.AddEdge(ids.Next(), a.ID(), 0, ids.Next(), 0)
	require.ErrorIs(t, err, ErrUnknownNode)
}
