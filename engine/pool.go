// SPDX-License-Identifier: EPL-2.0

// Package engine assembles the graph, buffer pool and scheduler into the
// per-block audio callback, and exposes the control-side API used to
// build and drive a processing graph from another thread.
package engine

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
)

// PortKind distinguishes a node's input buffers from its output buffers
// when keying into the BufferPool.
type PortKind int

const (
	Input PortKind = iota
	Output
)

// BufferKey names one buffer slot: one of a node's per-input-port mix
// buffers, or one of its numbered outputs.
type BufferKey struct {
	NodeID ids.ID
	Kind   PortKind
	Index  int
}

// PoolObserver is notified when the pool has no free buffer left to hand
// out. A nil observer is valid everywhere one is accepted.
type PoolObserver interface {
	PoolExhausted()
}

// BufferPool hands out *buffer.Owned instances from a fixed-size free
// list, tracking which key currently holds which buffer. It never grows:
// a block that needs more concurrently-live buffers than the pool's
// capacity is a configuration error, surfaced through PoolObserver rather
// than by allocating on the realtime thread.
type BufferPool struct {
	channels   int
	frames     int
	sampleRate float64

	free     []*buffer.Owned
	assigned map[BufferKey]*buffer.Owned

	observer PoolObserver
}

// NewBufferPool preallocates capacity buffers, each sized for channels
// channels and frames frames at sampleRate.
func NewBufferPool(capacity, channels, frames int, sampleRate float64, observer PoolObserver) *BufferPool {
	free := make([]*buffer.Owned, capacity)
	for i := range free {
		free[i] = buffer.NewOwned(channels, frames, sampleRate)
	}
	return &BufferPool{
		channels:   channels,
		frames:     frames,
		sampleRate: sampleRate,
		free:       free,
		assigned:   make(map[BufferKey]*buffer.Owned, capacity),
		observer:   observer,
	}
}

// Acquire hands out the buffer assigned to key, taking one from the free
// list and resizing it to frameCount if key is not already assigned.
// Returns nil if the pool is exhausted.
func (p *BufferPool) Acquire(key BufferKey, frameCount int) *buffer.Owned {
	if buf, ok := p.assigned[key]; ok {
		return buf
	}
	if len(p.free) == 0 {
		if p.observer != nil {
			p.observer.PoolExhausted()
		}
		return nil
	}
	buf := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	buf.Resize(frameCount)
	p.assigned[key] = buf
	return buf
}

// Lookup returns the buffer currently assigned to key, if any.
func (p *BufferPool) Lookup(key BufferKey) (*buffer.Owned, bool) {
	buf, ok := p.assigned[key]
	return buf, ok
}

// Release returns key's buffer to the free list.
func (p *BufferPool) Release(key BufferKey) {
	buf, ok := p.assigned[key]
	if !ok {
		return
	}
	delete(p.assigned, key)
	p.free = append(p.free, buf)
}

// FreeCount reports how many buffers are currently unassigned. After
// Scheduler.ProcessBlock it equals the pool's capacity once every node
// output still assigned has been released with Scheduler.ReleaseOutput,
// as Engine.Process does at the end of every block it completes.
func (p *BufferPool) FreeCount() int { return len(p.free) }

// Capacity reports the pool's total buffer count.
func (p *BufferPool) Capacity() int { return len(p.free) + len(p.assigned) }
