// SPDX-License-Identifier: EPL-2.0

// Package param implements the automated scalar parameter subsystem: a
// control-side handle that schedules value changes, and a realtime-side
// evaluator that turns a parameter's schedule into a per-block curve with
// no allocation on the hot path.
package param

import "github.com/ik5/audiograph/timeline"

// Method selects how a scheduled Change is interpolated towards from the
// previously committed value.
type Method int

const (
	// Step holds the previous value until EndTime, then jumps.
	Step Method = iota
	// Linear ramps linearly from the previous value to Value.
	Linear
	// Exponential ramps exponentially; it degrades to Linear for any
	// segment where either endpoint is <= 0.
	Exponential
)

// Change is one scheduled future value: reach Value by EndTime, using
// Method to interpolate from whatever the parameter's value is at the
// time the previous change (if any) committed.
type Change struct {
	Value   float64
	EndTime timeline.Timestamp
	Method  Method
}
