// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"testing"

	"github.com/ik5/audiograph/buffer"
)

func TestOscillatorProducesExpectedFrequency(t *testing.T) {
	t.Parallel()

	sampleRate := 48000.0
	freq := 440.0
	o := NewOscillator(sampleRate, 4800, freq, nil)

	out := buffer.NewOwned(1, 4800, sampleRate)
	o.Process(nil, out, 4800)

	// Measure the frequency from the spacing of upward zero crossings and
	// compare against the expected frequency.
	crossings, first, last := 0, -1, -1
	ch := out.ReadChannel(0)
	for i := 1; i < len(ch); i++ {
		if ch[i-1] < 0 && ch[i] >= 0 {
			crossings++
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	seconds := float64(last-first) / sampleRate
	measuredFreq := float64(crossings-1) / seconds
	if math.Abs(measuredFreq-freq) > freq*0.02 {
		t.Fatalf("measured frequency %v, want ~%v", measuredFreq, freq)
	}
}

func TestOscillatorDuplicatesChannelZero(t *testing.T) {
	t.Parallel()

	o := NewOscillator(48000, 256, 220, nil)
	out := buffer.NewOwned(2, 256, 48000)
	o.Process(nil, out, 256)

	ch0 := out.ReadChannel(0)
	ch1 := out.ReadChannel(1)
	for i := range ch0 {
		if ch0[i] != ch1[i] {
			t.Fatalf("frame %d: channel 1 = %v, want %v (duplicate of channel 0)", i, ch1[i], ch0[i])
		}
	}
}

func TestOscillatorPhaseStaysBounded(t *testing.T) {
	t.Parallel()

	o := NewOscillator(48000, 48000, 19000, nil)
	out := buffer.NewOwned(1, 48000, 48000)
	o.Process(nil, out, 48000)

	if o.phase < 0 || o.phase >= 1 {
		t.Fatalf("phase = %v, want in [0,1)", o.phase)
	}
}
