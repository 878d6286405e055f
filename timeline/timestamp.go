// SPDX-License-Identifier: EPL-2.0

// Package timeline provides the engine's fixed-point clock and dB/linear
// level conversions.
//
// Timestamp uses a Q32.32 fixed-point representation of seconds: a signed
// 64-bit integer whose upper 32 bits are whole seconds and whose lower 32
// bits are a fractional part. Repeated addition of a fixed-point duration
// never accumulates the drift that repeated float64 addition would over a
// multi-hour session, which is why the shared sample clock (engine.Engine)
// stores a Timestamp's raw bits rather than a float64 second count.
package timeline

import "math"

// fractionalBits is the number of bits below the binary point.
const fractionalBits = 32

const fixedOne = int64(1) << fractionalBits

// Timestamp is a signed Q32.32 fixed-point second count. The zero value is
// time zero. Timestamps are totally ordered and support exact round trips
// to/from sample counts at a given sample rate.
type Timestamp struct {
	bits int64
}

// Zero is the Timestamp at time 0.
func Zero() Timestamp { return Timestamp{} }

// FromSeconds builds a Timestamp from a float64 second count.
func FromSeconds(seconds float64) Timestamp {
	return Timestamp{bits: int64(math.Round(seconds * float64(fixedOne)))}
}

// FromSamples builds a Timestamp from a sample count at sampleRate Hz.
func FromSamples(samples float64, sampleRate float64) Timestamp {
	if sampleRate <= 0 {
		return Zero()
	}
	return FromSeconds(samples / sampleRate)
}

// FromRawBits reconstructs a Timestamp from the raw fixed-point
// representation previously obtained from Bits. This is how the shared
// sample-clock atomic (a single int64) is turned back into a Timestamp.
func FromRawBits(bits int64) Timestamp { return Timestamp{bits: bits} }

// Bits returns the raw Q32.32 representation, suitable for storing in an
// atomic int64.
func (t Timestamp) Bits() int64 { return t.bits }

// AsSeconds returns the timestamp as a float64 second count.
func (t Timestamp) AsSeconds() float64 {
	return float64(t.bits) / float64(fixedOne)
}

// AsSamples returns the timestamp as a float64 sample count at sampleRate Hz.
func (t Timestamp) AsSamples(sampleRate float64) float64 {
	return t.AsSeconds() * sampleRate
}

// IncrementedBySamples returns t advanced by n samples at sampleRate Hz.
func (t Timestamp) IncrementedBySamples(n int, sampleRate float64) Timestamp {
	return t.IncrementedBySeconds(float64(n) / sampleRate)
}

// IncrementedBySeconds returns t advanced by the given number of seconds.
func (t Timestamp) IncrementedBySeconds(seconds float64) Timestamp {
	return Timestamp{bits: t.bits + int64(math.Round(seconds*float64(fixedOne)))}
}

// Sub returns the signed duration (t - other), itself represented as a
// Timestamp so it can be added back with IncrementedBy*.
func (t Timestamp) Sub(other Timestamp) Timestamp {
	return Timestamp{bits: t.bits - other.bits}
}

// Before reports whether t occurs strictly before other.
func (t Timestamp) Before(other Timestamp) bool { return t.bits < other.bits }

// After reports whether t occurs strictly after other.
func (t Timestamp) After(other Timestamp) bool { return t.bits > other.bits }

// Equal reports whether t and other represent the same instant.
func (t Timestamp) Equal(other Timestamp) bool { return t.bits == other.bits }

// Compare returns -1, 0 or 1 as t is before, equal to, or after other.
func (t Timestamp) Compare(other Timestamp) int {
	switch {
	case t.bits < other.bits:
		return -1
	case t.bits > other.bits:
		return 1
	default:
		return 0
	}
}
