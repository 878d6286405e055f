// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"testing"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/param"
)

func TestGainScalesInputByConstant(t *testing.T) {
	t.Parallel()

	g := NewGain(48000, 64, 0.5)

	in := buffer.NewOwned(1, 64, 48000)
	for i := range in.WriteChannel(0) {
		in.WriteChannel(0)[i] = 1
	}
	out := buffer.NewOwned(1, 64, 48000)

	g.Process([]buffer.Reader{in}, out, 64)

	for i, v := range out.ReadChannel(0) {
		if v != 0.5 {
			t.Fatalf("frame %d = %v, want 0.5", i, v)
		}
	}
}

func TestGainReflectsScheduledRamp(t *testing.T) {
	t.Parallel()

	g := NewGain(48000, 480, 0.0)

	in := buffer.NewOwned(1, 480, 48000)
	for i := range in.WriteChannel(0) {
		in.WriteChannel(0)[i] = 1
	}
	out := buffer.NewOwned(1, 480, 48000)

	endTime := g.clk.now().IncrementedBySamples(480, 48000)
	g.gain.Append(param.Change{Value: 1.0, EndTime: endTime, Method: param.Linear})

	g.Process([]buffer.Reader{in}, out, 480)

	first := out.ReadChannel(0)[0]
	last := out.ReadChannel(0)[479]
	if first >= last {
		t.Fatalf("expected gain to ramp upward across the block, got first=%v last=%v", first, last)
	}
}

func TestGainParamLooksUpByID(t *testing.T) {
	t.Parallel()

	g := NewGain(48000, 64, 1.0)

	ev, ok := g.Param(g.GainID)
	if !ok || ev != g.gain {
		t.Fatalf("Param(GainID) = %v, %v, want the gain evaluator", ev, ok)
	}

	if _, ok := g.Param(g.id); ok {
		t.Fatalf("Param(nodeID) should not resolve")
	}
}
