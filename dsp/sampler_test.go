// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"testing"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/timeline"
)

func TestSamplerStartNowEntersPlayingWithoutFade(t *testing.T) {
	t.Parallel()

	sample := buffer.NewOwned(1, 1000, 48000)
	for i := range sample.WriteChannel(0) {
		sample.WriteChannel(0)[i] = 1
	}
	s := NewSampler(48000, sample, 1, 8)
	s.PostEvent(NewStartNowEvent())

	out := buffer.NewOwned(1, 100, 48000)
	s.Process(nil, out, 100)

	for i, v := range out.ReadChannel(0) {
		if v != 1 {
			t.Fatalf("frame %d = %v, want 1 (no fade-in for StartNow at position 0)", i, v)
		}
	}
}

func TestSamplerLoopAlignment(t *testing.T) {
	t.Parallel()

	const n = 10000
	sample := buffer.NewOwned(1, n, 48000)
	sample.WriteChannel(0)[n-1] = 0.123

	s := NewSampler(48000, sample, 1, 8)
	s.PostEvent(NewEnableLoopEvent(0, n, timeline.Zero()))
	s.PostEvent(NewStartNowEvent())

	const blockSize = 1000
	out := buffer.NewOwned(1, blockSize, 48000)

	var frame9999, frame19999 float32
	total := 0
	for total < 20000 {
		s.Process(nil, out, blockSize)
		for i, v := range out.ReadChannel(0) {
			idx := total + i
			if idx == 9999 {
				frame9999 = v
			}
			if idx == 19999 {
				frame19999 = v
			}
		}
		total += blockSize
	}

	const tol = 1e-2
	if abs32(frame9999-0.123) > tol {
		t.Errorf("frame 9999 = %v, want ~0.123", frame9999)
	}
	if abs32(frame19999-0.123) > tol {
		t.Errorf("frame 19999 = %v, want ~0.123", frame19999)
	}
}

func TestSamplerFadeInReachesUnityAtFadeLength(t *testing.T) {
	t.Parallel()

	sample := buffer.NewOwned(1, 48000, 48000)
	for i := range sample.WriteChannel(0) {
		sample.WriteChannel(0)[i] = 1
	}
	s := NewSampler(48000, sample, 1, 8)
	s.PostEvent(NewStartEvent(0, timeline.Zero()))

	out := buffer.NewOwned(1, s.fadeFrames, 48000)
	s.Process(nil, out, s.fadeFrames)

	ch := out.ReadChannel(0)
	mid := ch[s.fadeFrames/2]
	if abs32(mid-0.5) > 0.05 {
		t.Errorf("fade midpoint = %v, want 0.5 +/- 0.05", mid)
	}
	last := ch[s.fadeFrames-1]
	if abs32(last-1.0) > 0.01 {
		t.Errorf("fade end = %v, want 1.0 +/- 0.01", last)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
