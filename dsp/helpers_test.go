// SPDX-License-Identifier: EPL-2.0

package dsp

import "github.com/ik5/audiograph/buffer"

// newMonoBuffer wraps samples in a single-channel Owned buffer for tests.
func newMonoBuffer(sampleRate float64, samples []float32) *buffer.Owned {
	b := buffer.NewOwned(1, len(samples), sampleRate)
	copy(b.WriteChannel(0), samples)
	return b
}
