// SPDX-License-Identifier: EPL-2.0

package param

import (
	"math"
	"sync/atomic"

	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/timeline"
)

// ChangePoster is how a ControlHandle reaches across to the realtime
// thread: posting a Change or a cancellation is really sending a command
// across the command transport, so a handle never touches an Evaluator
// directly. Implemented by the transport package's command sender.
type ChangePoster interface {
	PostParameterChange(dspID, paramID ids.ID, c Change)
	CancelParameterChanges(dspID, paramID ids.ID, after *timeline.Timestamp)
}

// ControlHandle is the control-thread handle to a single automated
// parameter: it knows the parameter's bounds and default, can read the
// realtime thread's last-published value through a shared atomic, and
// schedules future changes through a ChangePoster.
type ControlHandle struct {
	dspID, paramID ids.ID

	min, max, defaultValue float64

	shared *atomic.Uint64
	poster ChangePoster
}

// NewControlHandle builds a handle over shared, the atomic word an
// Evaluator publishes its current value to (see Evaluator.Shared).
func NewControlHandle(dspID, paramID ids.ID, min, max, defaultValue float64, shared *atomic.Uint64, poster ChangePoster) *ControlHandle {
	return &ControlHandle{
		dspID:        dspID,
		paramID:      paramID,
		min:          min,
		max:          max,
		defaultValue: defaultValue,
		shared:       shared,
		poster:       poster,
	}
}

// Min is the lowest value the parameter will accept.
func (h *ControlHandle) Min() float64 { return h.min }

// Max is the highest value the parameter will accept.
func (h *ControlHandle) Max() float64 { return h.max }

// Default is the value the parameter holds before any change commits.
func (h *ControlHandle) Default() float64 { return h.defaultValue }

// Value returns the most recent value the realtime thread has published,
// read without blocking and without a lock.
func (h *ControlHandle) Value() float64 {
	return math.Float64frombits(h.shared.Load())
}

func (h *ControlHandle) clamp(v float64) float64 {
	if v < h.min {
		return h.min
	}
	if v > h.max {
		return h.max
	}
	return v
}

// SetValueAtTime schedules an instantaneous jump to value at time.
func (h *ControlHandle) SetValueAtTime(value float64, time timeline.Timestamp) {
	h.poster.PostParameterChange(h.dspID, h.paramID, Change{
		Value:   h.clamp(value),
		EndTime: time,
		Method:  Step,
	})
}

// LinearRampToValue schedules a linear ramp from whatever value is
// committed when the ramp's segment begins, reaching value by endTime.
func (h *ControlHandle) LinearRampToValue(value float64, endTime timeline.Timestamp) {
	h.poster.PostParameterChange(h.dspID, h.paramID, Change{
		Value:   h.clamp(value),
		EndTime: endTime,
		Method:  Linear,
	})
}

// ExponentialRampToValue schedules an exponential ramp reaching value by
// endTime. A segment whose start or end value is <= 0 degrades to a
// linear ramp on the realtime thread; the caller is not notified of the
// degradation at schedule time.
func (h *ControlHandle) ExponentialRampToValue(value float64, endTime timeline.Timestamp) {
	h.poster.PostParameterChange(h.dspID, h.paramID, Change{
		Value:   h.clamp(value),
		EndTime: endTime,
		Method:  Exponential,
	})
}

// CancelScheduledChanges drops every queued change ending after after, or
// the entire schedule when after is nil.
func (h *ControlHandle) CancelScheduledChanges(after *timeline.Timestamp) {
	h.poster.CancelParameterChanges(h.dspID, h.paramID, after)
}
