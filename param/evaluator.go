// SPDX-License-Identifier: EPL-2.0

package param

import (
	"math"
	"sync/atomic"

	"github.com/ik5/audiograph/timeline"
)

// Evaluator is the realtime-side half of a parameter. It owns an ordered
// queue of future Changes, the most recently committed (value, time) pair,
// and a scratch buffer preallocated to maxFrameCount so that Evaluate
// never allocates. It shares a single atomic with its ControlHandle,
// published at the end of every Evaluate call, which is how the control
// side observes the parameter's current value without a lock.
type Evaluator struct {
	shared *atomic.Uint64

	lastValue float64
	lastTime  timeline.Timestamp
	queue     []Change

	scratch []float64

	// degenerate is sticky once an exponential ramp degrades to linear
	// because one of its endpoints was <= 0. Cleared only by
	// constructing a fresh Evaluator; reported by Degenerate().
	degenerate bool
}

// NewEvaluator constructs an Evaluator with the given initial value and a
// scratch buffer sized to maxFrameCount. The atomic it shares with a
// ControlHandle is available from Shared, for passing to NewControlHandle.
func NewEvaluator(initial float64, maxFrameCount int) *Evaluator {
	shared := &atomic.Uint64{}
	shared.Store(math.Float64bits(initial))
	return &Evaluator{
		shared:    shared,
		lastValue: initial,
		scratch:   make([]float64, maxFrameCount),
	}
}

// Shared exposes the atomic word backing this evaluator's current value,
// for wiring into a ControlHandle.
func (e *Evaluator) Shared() *atomic.Uint64 { return e.shared }

// Degenerate reports whether any exponential ramp segment has degraded to
// linear because an endpoint was <= 0.
func (e *Evaluator) Degenerate() bool { return e.degenerate }

// Append inserts a Change into the ordered queue, maintaining the
// end_time ordering invariant (§3) regardless of arrival order.
func (e *Evaluator) Append(c Change) {
	i := len(e.queue)
	for i > 0 && e.queue[i-1].EndTime.After(c.EndTime) {
		i--
	}
	e.queue = append(e.queue, Change{})
	copy(e.queue[i+1:], e.queue[i:])
	e.queue[i] = c
}

// Cancel truncates the queue: with after == nil every scheduled change is
// dropped; otherwise every change ending strictly after *after is dropped.
func (e *Evaluator) Cancel(after *timeline.Timestamp) {
	if after == nil {
		e.queue = e.queue[:0]
		return
	}
	kept := e.queue[:0]
	for _, c := range e.queue {
		if !c.EndTime.After(*after) {
			kept = append(kept, c)
		}
	}
	e.queue = kept
}

// Evaluate fills and returns a frameCount-long scratch slice with the
// parameter's value at each of the sub-block's frames, advancing through
// any due changes first. The returned slice aliases e's internal scratch
// buffer and is only valid until the next call to Evaluate.
func (e *Evaluator) Evaluate(startTime timeline.Timestamp, frameCount int, sampleRate float64) []float64 {
	// Step 1: drop already-expired changes, advancing to the most
	// recent one.
	for len(e.queue) > 0 && !e.queue[0].EndTime.After(startTime) {
		e.lastValue = e.queue[0].Value
		e.lastTime = e.queue[0].EndTime
		e.queue = e.queue[1:]
	}

	out := e.scratch[:frameCount]

	for f := 0; f < frameCount; f++ {
		t := startTime.IncrementedBySamples(f, sampleRate)

		for len(e.queue) > 0 && !e.queue[0].EndTime.After(t) {
			e.lastValue = e.queue[0].Value
			e.lastTime = e.queue[0].EndTime
			e.queue = e.queue[1:]
		}

		if len(e.queue) == 0 {
			out[f] = e.lastValue
			continue
		}

		out[f] = e.evaluateSegment(e.queue[0], t)
	}

	e.shared.Store(math.Float64bits(e.lastValue))
	return out
}

func (e *Evaluator) evaluateSegment(c Change, t timeline.Timestamp) float64 {
	span := c.EndTime.Sub(e.lastTime).AsSeconds()
	if span <= 0 {
		return c.Value
	}
	frac := t.Sub(e.lastTime).AsSeconds() / span

	switch c.Method {
	case Step:
		if t.Before(c.EndTime) {
			return e.lastValue
		}
		return c.Value
	case Exponential:
		if e.lastValue > 0 && c.Value > 0 {
			return e.lastValue * math.Pow(c.Value/e.lastValue, frac)
		}
		e.degenerate = true
		fallthrough
	default: // Linear (and degraded Exponential)
		return e.lastValue + (c.Value-e.lastValue)*frac
	}
}
