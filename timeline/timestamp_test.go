// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"math"
	"testing"
)

func TestTimestampRoundTripSamples(t *testing.T) {
	t.Parallel()

	const sampleRate = 48000.0

	tests := []struct {
		name    string
		samples float64
	}{
		{"zero", 0},
		{"one second", 48000},
		{"fractional", 12345.5},
		{"long session", 48000 * 3600 * 6}, // six hours
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := FromSamples(tt.samples, sampleRate)
			got := ts.AsSamples(sampleRate)
			if diff := math.Abs(got - tt.samples); diff > 1e-6 {
				t.Errorf("AsSamples() = %v, want %v (diff %v)", got, tt.samples, diff)
			}
		})
	}
}

func TestTimestampOrdering(t *testing.T) {
	t.Parallel()

	a := FromSeconds(1.0)
	b := FromSeconds(2.0)

	if !a.Before(b) {
		t.Errorf("expected %v before %v", a, b)
	}
	if !b.After(a) {
		t.Errorf("expected %v after %v", b, a)
	}
	if a.Compare(a) != 0 {
		t.Errorf("expected a == a")
	}
}

func TestTimestampIncrementNoDrift(t *testing.T) {
	t.Parallel()

	// Simulating ~2.9 hours of 44.1kHz callbacks of 512 frames each, the
	// way the realtime thread advances the shared sample clock every
	// callback. Fixed-point accumulation must not drift relative to the
	// equivalent single large increment.
	const sampleRate = 44100.0
	const blockSize = 512
	const blocks = 900000

	incremental := Zero()
	for range blocks {
		incremental = incremental.IncrementedBySamples(blockSize, sampleRate)
	}

	direct := FromSamples(float64(blockSize*blocks), sampleRate)

	if diff := math.Abs(incremental.AsSeconds() - direct.AsSeconds()); diff > 1e-6 {
		t.Errorf("incremental accumulation drifted by %v seconds", diff)
	}
}

func TestTimestampSub(t *testing.T) {
	t.Parallel()

	a := FromSeconds(5.0)
	b := FromSeconds(2.5)

	d := a.Sub(b)
	if diff := math.Abs(d.AsSeconds() - 2.5); diff > 1e-9 {
		t.Errorf("Sub() = %v, want 2.5", d.AsSeconds())
	}
}

func TestTimestampFromRawBits(t *testing.T) {
	t.Parallel()

	ts := FromSeconds(3.25)
	round := FromRawBits(ts.Bits())

	if !round.Equal(ts) {
		t.Errorf("FromRawBits(Bits()) = %v, want %v", round, ts)
	}
}
