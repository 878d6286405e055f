// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"testing"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/timeline"
)

func TestMixerRoutesInputsThroughMatrix(t *testing.T) {
	t.Parallel()

	m := NewMixer(48000, 2, 8)
	m.PostUpdate(MixerUpdate{Input: 0, Output: 0, Level: timeline.FromLinear(1.0)})
	m.PostUpdate(MixerUpdate{Input: 1, Output: 0, Level: timeline.FromLinear(0.5)})

	in0 := buffer.NewOwned(1, 32, 48000)
	in1 := buffer.NewOwned(1, 32, 48000)
	for i := range in0.WriteChannel(0) {
		in0.WriteChannel(0)[i] = 1
		in1.WriteChannel(0)[i] = 1
	}
	out := buffer.NewOwned(1, 32, 48000)

	m.Process([]buffer.Reader{
		buffer.NewReadView(in0, buffer.Location{}, 1, 32),
		buffer.NewReadView(in1, buffer.Location{}, 1, 32),
	}, out, 32)

	for i, v := range out.ReadChannel(0) {
		if v != 1.5 {
			t.Fatalf("frame %d = %v, want 1.5", i, v)
		}
	}
}

func TestMixerSilentOutputWithoutUpdates(t *testing.T) {
	t.Parallel()

	m := NewMixer(48000, 1, 8)

	in := buffer.NewOwned(1, 16, 48000)
	for i := range in.WriteChannel(0) {
		in.WriteChannel(0)[i] = 1
	}
	out := buffer.NewOwned(1, 16, 48000)

	m.Process([]buffer.Reader{in}, out, 16)

	for i, v := range out.ReadChannel(0) {
		if v != 0 {
			t.Fatalf("frame %d = %v, want 0 (no matrix update posted)", i, v)
		}
	}
}

func TestMixerUpdateTakesEffectAtNextBlock(t *testing.T) {
	t.Parallel()

	m := NewMixer(48000, 1, 8)

	in := buffer.NewOwned(1, 8, 48000)
	for i := range in.WriteChannel(0) {
		in.WriteChannel(0)[i] = 1
	}
	out := buffer.NewOwned(1, 8, 48000)

	// Post the update only after the first block has already processed;
	// it must not retroactively affect block one.
	m.Process([]buffer.Reader{in}, out, 8)
	for _, v := range out.ReadChannel(0) {
		if v != 0 {
			t.Fatalf("first block should be silent, got %v", v)
		}
	}

	m.PostUpdate(MixerUpdate{Input: 0, Output: 0, Level: timeline.Unity()})
	m.Process([]buffer.Reader{in}, out, 8)
	for _, v := range out.ReadChannel(0) {
		if v != 1 {
			t.Fatalf("second block should be 1.0 after update, got %v", v)
		}
	}
}
