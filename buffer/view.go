// SPDX-License-Identifier: EPL-2.0

package buffer

// ReadView is a read-only view of a sub-range of another buffer: a
// channel offset/count and a frame offset/count, with no storage of its
// own. Constructing one never allocates.
type ReadView struct {
	src          Reader
	channelStart int
	channelCount int
	frameStart   int
	frameCount   int
}

// NewReadView returns a read-only view of src covering the given channel
// and frame sub-range.
func NewReadView(src Reader, loc Location, channelCount, frameCount int) ReadView {
	return ReadView{
		src:          src,
		channelStart: loc.Channel,
		channelCount: channelCount,
		frameStart:   loc.Frame,
		frameCount:   frameCount,
	}
}

func (v ReadView) Channels() int       { return v.channelCount }
func (v ReadView) Frames() int         { return v.frameCount }
func (v ReadView) SampleRate() float64 { return v.src.SampleRate() }

func (v ReadView) ReadChannel(ch int) []float32 {
	full := v.src.ReadChannel(v.channelStart + ch)
	return full[v.frameStart : v.frameStart+v.frameCount]
}

// MutView is a mutable view of a sub-range of another buffer. Like
// ReadView it holds no storage of its own.
type MutView struct {
	src          Writer
	channelStart int
	channelCount int
	frameStart   int
	frameCount   int
}

// NewMutView returns a mutable view of src covering the given channel and
// frame sub-range.
func NewMutView(src Writer, loc Location, channelCount, frameCount int) MutView {
	return MutView{
		src:          src,
		channelStart: loc.Channel,
		channelCount: channelCount,
		frameStart:   loc.Frame,
		frameCount:   frameCount,
	}
}

func (v MutView) Channels() int       { return v.channelCount }
func (v MutView) Frames() int         { return v.frameCount }
func (v MutView) SampleRate() float64 { return v.src.SampleRate() }

func (v MutView) ReadChannel(ch int) []float32 {
	return v.WriteChannel(ch)
}

func (v MutView) WriteChannel(ch int) []float32 {
	full := v.src.WriteChannel(v.channelStart + ch)
	return full[v.frameStart : v.frameStart+v.frameCount]
}
