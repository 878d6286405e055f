// SPDX-License-Identifier: EPL-2.0

// Package dsp implements the engine's reference processing nodes: the
// ones whose numeric behavior is part of the observable contract (ADSR,
// biquad, oscillator, sampler, compressor, waveshaper, convolution) plus
// the structural nodes that route and combine signals (gain, pan, mixer,
// envelope follower, recorder).
package dsp

import "github.com/ik5/audiograph/timeline"

// clock tracks a node's own position on the timeline across Process
// calls, since a DspNode's Process method is not itself handed a
// timestamp — only a frame count. Every node that evaluates a
// param.Evaluator or otherwise needs "now" embeds one.
type clock struct {
	t          timeline.Timestamp
	sampleRate float64
}

func newClock(sampleRate float64) clock {
	return clock{sampleRate: sampleRate}
}

func (c *clock) now() timeline.Timestamp { return c.t }

func (c *clock) advance(frames int) {
	c.t = c.t.IncrementedBySamples(frames, c.sampleRate)
}
