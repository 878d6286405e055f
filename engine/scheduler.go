// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/graph"
	"github.com/ik5/audiograph/ids"
)

// Scheduler walks a Graph's topological order once per block, assembling
// each node's inputs from its producers' pooled output buffers and
// releasing a buffer back to the pool as soon as its last consumer has
// run. A node with exactly one incoming edge on a given input reads its
// producer's output buffer directly (the zero-copy fast path); a node
// with more than one edge landing on the same input gets a pooled mix
// buffer that accumulates every source before Process runs.
type Scheduler struct {
	graph    *graph.Graph
	pool     *BufferPool
	channels int
	silence  buffer.ReadView

	// externalInputs lets a node read directly from the engine's
	// external input instead of silence, for input ports with no
	// incoming graph edge. Keyed by node id, then input port.
	externalInputs map[ids.ID]map[int]buffer.Reader
}

// SetExternalInput routes the engine's external input to nodeID's port,
// for every block until ClearExternalInput is called.
func (s *Scheduler) SetExternalInput(nodeID ids.ID, port int, r buffer.Reader) {
	if s.externalInputs == nil {
		s.externalInputs = make(map[ids.ID]map[int]buffer.Reader)
	}
	ports, ok := s.externalInputs[nodeID]
	if !ok {
		ports = make(map[int]buffer.Reader)
		s.externalInputs[nodeID] = ports
	}
	ports[port] = r
}

// ClearExternalInput removes a prior SetExternalInput routing.
func (s *Scheduler) ClearExternalInput(nodeID ids.ID, port int) {
	if ports, ok := s.externalInputs[nodeID]; ok {
		delete(ports, port)
	}
}

// NewScheduler builds a Scheduler over g and pool. maxFrames and
// sampleRate size the shared silence buffer handed to unconnected input
// ports.
func NewScheduler(g *graph.Graph, pool *BufferPool, channels, maxFrames int, sampleRate float64) *Scheduler {
	silenceBuf := buffer.NewOwned(channels, maxFrames, sampleRate)
	return &Scheduler{
		graph:    g,
		pool:     pool,
		channels: channels,
		silence:  buffer.NewReadView(silenceBuf, buffer.Location{}, channels, maxFrames),
	}
}

// ProcessBlock runs every node in topological order for a block of
// frameCount frames.
func (s *Scheduler) ProcessBlock(frameCount int, sampleRate float64) error {
	order, err := s.graph.TopologicalOrder()
	if err != nil {
		return err
	}

	remaining := make(map[BufferKey]int, len(order))
	for _, id := range order {
		for _, e := range s.graph.OutgoingEdges(id) {
			remaining[BufferKey{NodeID: e.SourceID, Kind: Output, Index: e.SourceOutput}]++
		}
	}

	silence := buffer.NewReadView(s.silence, buffer.Location{}, s.channels, frameCount)

	for _, id := range order {
		node, ok := s.graph.Node(id)
		if !ok {
			continue
		}

		numInputs := node.NumInputs()
		inputs := make([]buffer.Reader, numInputs)
		ports := s.externalInputs[id]
		for i := range inputs {
			if r, ok := ports[i]; ok {
				inputs[i] = r
				continue
			}
			inputs[i] = silence
		}

		incoming := s.graph.IncomingEdges(id)
		counts := make([]int, numInputs)
		for _, e := range incoming {
			if e.DestInput >= 0 && e.DestInput < numInputs {
				counts[e.DestInput]++
			}
		}

		slotMix := make([]*buffer.Owned, numInputs)
		for _, e := range incoming {
			if e.DestInput < 0 || e.DestInput >= numInputs {
				continue
			}
			srcKey := BufferKey{NodeID: e.SourceID, Kind: Output, Index: e.SourceOutput}
			srcBuf, ok := s.pool.Lookup(srcKey)
			if !ok {
				continue
			}

			if counts[e.DestInput] == 1 {
				inputs[e.DestInput] = srcBuf
				continue
			}

			mixBuf := slotMix[e.DestInput]
			if mixBuf == nil {
				mixBuf = s.pool.Acquire(BufferKey{NodeID: id, Kind: Input, Index: e.DestInput}, frameCount)
				if mixBuf == nil {
					continue
				}
				buffer.Clear(mixBuf)
				slotMix[e.DestInput] = mixBuf
				inputs[e.DestInput] = mixBuf
			}
			buffer.AddFrom(mixBuf, srcBuf, buffer.Location{}, buffer.Location{}, s.channels, frameCount)
		}

		outBuf := s.pool.Acquire(BufferKey{NodeID: id, Kind: Output, Index: 0}, frameCount)
		if outBuf == nil {
			return errPoolExhausted
		}

		node.Process(inputs, outBuf, frameCount)

		for slot, mixBuf := range slotMix {
			if mixBuf != nil {
				s.pool.Release(BufferKey{NodeID: id, Kind: Input, Index: slot})
			}
		}

		for _, e := range incoming {
			srcKey := BufferKey{NodeID: e.SourceID, Kind: Output, Index: e.SourceOutput}
			if _, ok := remaining[srcKey]; !ok {
				continue
			}
			remaining[srcKey]--
			if remaining[srcKey] == 0 {
				s.pool.Release(srcKey)
			}
		}
	}

	return nil
}

// Output returns the pooled output buffer for nodeID, if it is still
// assigned (i.e. it has outgoing edges still pending, or the caller has
// not yet released it as an engine output).
func (s *Scheduler) Output(nodeID ids.ID) (*buffer.Owned, bool) {
	return s.pool.Lookup(BufferKey{NodeID: nodeID, Kind: Output, Index: 0})
}

// ReleaseOutput returns nodeID's output buffer to the pool. Call this
// once a terminal node's output has been consumed (e.g. summed into the
// engine's external output) to restore the pool's free-count invariant.
func (s *Scheduler) ReleaseOutput(nodeID ids.ID) {
	s.pool.Release(BufferKey{NodeID: nodeID, Kind: Output, Index: 0})
}
