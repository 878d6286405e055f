// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"math"
	"testing"
)

func fillRamp(b *Owned) {
	for c := 0; c < b.Channels(); c++ {
		ch := b.WriteChannel(c)
		for i := range ch {
			ch[i] = float32(i + 1)
		}
	}
}

func TestCopyFrom(t *testing.T) {
	t.Parallel()

	src := NewOwned(2, 4, 48000)
	fillRamp(src)
	dst := NewOwned(2, 4, 48000)

	CopyFrom(dst, src, Location{}, Location{}, 2, 4)

	for c := 0; c < 2; c++ {
		got := dst.ReadChannel(c)
		want := src.ReadChannel(c)
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("channel %d frame %d = %v, want %v", c, i, got[i], want[i])
			}
		}
	}
}

func TestAddFromAccumulates(t *testing.T) {
	t.Parallel()

	src := NewOwned(1, 4, 48000)
	fillRamp(src)
	dst := NewOwned(1, 4, 48000)
	fillRamp(dst)

	AddFrom(dst, src, Location{}, Location{}, 1, 4)

	got := dst.ReadChannel(0)
	want := []float32{2, 4, 6, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplyGainCurveShortCircuits(t *testing.T) {
	t.Parallel()

	b := NewOwned(1, 4, 48000)
	fillRamp(b)

	allOne := []float32{1, 1, 1, 1}
	ApplyGain(b, allOne)
	if got := b.ReadChannel(0); got[0] != 1 || got[3] != 4 {
		t.Errorf("all-one curve should be a no-op, got %v", got)
	}

	allZero := []float32{0, 0, 0, 0}
	ApplyGain(b, allZero)
	for i, v := range b.ReadChannel(0) {
		if v != 0 {
			t.Errorf("all-zero curve should clear, frame %d = %v", i, v)
		}
	}
}

func TestApplyGainValueShortCircuits(t *testing.T) {
	t.Parallel()

	b := NewOwned(1, 4, 48000)
	fillRamp(b)

	ApplyGainValue(b, Location{}, 4, 1.0)
	if got := b.ReadChannel(0); got[0] != 1 {
		t.Errorf("gain of 1 should be a no-op")
	}

	ApplyGainValue(b, Location{}, 4, 0.0)
	for _, v := range b.ReadChannel(0) {
		if v != 0 {
			t.Errorf("gain of 0 should clear")
		}
	}
}

func TestChannelIsSilent(t *testing.T) {
	t.Parallel()

	b := NewOwned(1, 4, 48000)
	if !ChannelIsSilent(b, 0) {
		t.Errorf("freshly allocated buffer should be silent")
	}

	b.WriteChannel(0)[2] = 0.1
	if ChannelIsSilent(b, 0) {
		t.Errorf("buffer with a nonzero sample should not be silent")
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	t.Parallel()

	owned := NewOwned(2, 3, 48000)
	owned.WriteChannel(0)[0] = 1
	owned.WriteChannel(0)[1] = 2
	owned.WriteChannel(0)[2] = 3
	owned.WriteChannel(1)[0] = -1
	owned.WriteChannel(1)[1] = -2
	owned.WriteChannel(1)[2] = -3

	interleaved := make([]float32, 6)
	CopyToInterleaved(interleaved, owned)

	round := NewOwned(2, 3, 48000)
	FillFromInterleaved(round, interleaved, 2)

	for c := 0; c < 2; c++ {
		want := owned.ReadChannel(c)
		got := round.ReadChannel(c)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("channel %d frame %d = %v, want %v", c, i, got[i], want[i])
			}
		}
	}
}

func TestCopyToInterleavedInt16QuantizesAndInterleaves(t *testing.T) {
	t.Parallel()

	owned := NewOwned(2, 2, 48000)
	owned.WriteChannel(0)[0] = 1
	owned.WriteChannel(0)[1] = -1
	owned.WriteChannel(1)[0] = 0.5
	owned.WriteChannel(1)[1] = -0.5

	got := make([]int16, 4)
	CopyToInterleavedInt16(got, owned)

	want := []int16{math.MaxInt16, 16383, math.MinInt16, -16383}
	for i := range want {
		diff := int(got[i]) - int(want[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSampleRateConvertUnityRatioIsIdentity(t *testing.T) {
	t.Parallel()

	src := NewOwned(1, 8, 48000)
	fillRamp(src)
	dst := NewOwned(1, 8, 48000)

	SampleRateConvertFrom(dst, src, Location{}, Location{}, 1)

	want := src.ReadChannel(0)
	got := dst.ReadChannel(0)
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > 1e-6 {
			t.Errorf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMutViewWritesThroughToParent(t *testing.T) {
	t.Parallel()

	parent := NewOwned(2, 8, 48000)
	view := NewMutView(parent, Location{Channel: 1, Frame: 2}, 1, 4)

	dst := view.WriteChannel(0)
	dst[0] = 5

	if got := parent.ReadChannel(1)[2]; got != 5 {
		t.Errorf("write through MutView did not reach parent, got %v", got)
	}
}

func TestReadViewReflectsParent(t *testing.T) {
	t.Parallel()

	parent := NewOwned(1, 8, 48000)
	parent.WriteChannel(0)[3] = 9

	view := NewReadView(parent, Location{Frame: 2}, 1, 4)
	if got := view.ReadChannel(0)[1]; got != 9 {
		t.Errorf("ReadView did not reflect parent, got %v", got)
	}
}
