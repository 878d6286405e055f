// SPDX-License-Identifier: EPL-2.0

package buffer

// Owned is a heap-backed AudioBuffer: the only variant that allocates, at
// construction and when Resize grows a channel past its capacity. Every other variant (ReadView, MutView) borrows an
// Owned buffer's storage.
//
// Channels are stored as independent contiguous slices rather than one
// interleaved slice so WriteChannel/ReadChannel can hand back a slice with
// no per-sample indirection, which is what every per-channel DSP loop in
// package dsp relies on.
type Owned struct {
	channels   [][]float32
	frames     int
	sampleRate float64
}

// NewOwned allocates a buffer with the given shape, zero-filled.
func NewOwned(channelCount, frameCount int, sampleRate float64) *Owned {
	chans := make([][]float32, channelCount)
	for i := range chans {
		chans[i] = make([]float32, frameCount)
	}
	return &Owned{channels: chans, frames: frameCount, sampleRate: sampleRate}
}

func (b *Owned) Channels() int          { return len(b.channels) }
func (b *Owned) Frames() int            { return b.frames }
func (b *Owned) SampleRate() float64    { return b.sampleRate }
func (b *Owned) ReadChannel(ch int) []float32 { return b.channels[ch] }
func (b *Owned) WriteChannel(ch int) []float32 { return b.channels[ch] }

// Resize truncates or zero-extends every channel to frameCount, without a
// full reallocation when frameCount fits in existing channel capacity.
// Used by the buffer pool's free list, which is sized once and then only
// ever reused in place.
func (b *Owned) Resize(frameCount int) {
	for i, c := range b.channels {
		switch {
		case frameCount <= cap(c):
			b.channels[i] = c[:frameCount]
			if frameCount > len(c) {
				clearSlice(b.channels[i][len(c):])
			}
		default:
			grown := make([]float32, frameCount)
			copy(grown, c)
			b.channels[i] = grown
		}
	}
	b.frames = frameCount
}
