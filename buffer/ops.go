// SPDX-License-Identifier: EPL-2.0

package buffer

import "github.com/ik5/audiograph/utils"

// CopyFrom overwrites the region of dst starting at dstLoc with the region
// of src starting at srcLoc, covering channels/frames channels and frames
// (clamped to what both buffers actually have — see clampDims).
func CopyFrom(dst Writer, src Reader, srcLoc, dstLoc Location, channels, frames int) {
	channels, frames = clampDims(src, dst, srcLoc, dstLoc, channels, frames)
	for c := 0; c < channels; c++ {
		s := src.ReadChannel(srcLoc.Channel + c)[srcLoc.Frame : srcLoc.Frame+frames]
		d := dst.WriteChannel(dstLoc.Channel + c)[dstLoc.Frame : dstLoc.Frame+frames]
		copy(d, s)
	}
}

// AddFrom mix-accumulates the region of src starting at srcLoc into the
// region of dst starting at dstLoc.
func AddFrom(dst Writer, src Reader, srcLoc, dstLoc Location, channels, frames int) {
	channels, frames = clampDims(src, dst, srcLoc, dstLoc, channels, frames)
	for c := 0; c < channels; c++ {
		s := src.ReadChannel(srcLoc.Channel + c)[srcLoc.Frame : srcLoc.Frame+frames]
		d := dst.WriteChannel(dstLoc.Channel + c)[dstLoc.Frame : dstLoc.Frame+frames]
		for i := range d {
			d[i] += s[i]
		}
	}
}

// AddFromWithGain is AddFrom scaled by a constant gain as it accumulates.
func AddFromWithGain(dst Writer, src Reader, srcLoc, dstLoc Location, channels, frames int, gain float32) {
	channels, frames = clampDims(src, dst, srcLoc, dstLoc, channels, frames)
	for c := 0; c < channels; c++ {
		s := src.ReadChannel(srcLoc.Channel + c)[srcLoc.Frame : srcLoc.Frame+frames]
		d := dst.WriteChannel(dstLoc.Channel + c)[dstLoc.Frame : dstLoc.Frame+frames]
		for i := range d {
			d[i] += s[i] * gain
		}
	}
}

// ApplyGain multiplies every channel of w pointwise by curve, a
// len(frames)-long per-frame gain. An all-zero curve clears w; an
// all-one curve is a no-op — both short-circuits avoid a multiply per
// sample in the (common) cases of a fully-ramped-in or bypassed gain
// node.
func ApplyGain(w Writer, curve []float32) {
	switch classifyCurve(curve) {
	case curveAllZero:
		Clear(w)
		return
	case curveAllOne:
		return
	}

	for c := 0; c < w.Channels(); c++ {
		ch := w.WriteChannel(c)
		n := len(ch)
		if len(curve) < n {
			n = len(curve)
		}
		for i := 0; i < n; i++ {
			ch[i] *= curve[i]
		}
	}
}

type curveShape int

const (
	curveMixed curveShape = iota
	curveAllZero
	curveAllOne
)

func classifyCurve(curve []float32) curveShape {
	allZero, allOne := true, true
	for _, v := range curve {
		if v != 0 {
			allZero = false
		}
		if v != 1 {
			allOne = false
		}
		if !allZero && !allOne {
			return curveMixed
		}
	}
	switch {
	case len(curve) == 0:
		return curveMixed
	case allZero:
		return curveAllZero
	case allOne:
		return curveAllOne
	default:
		return curveMixed
	}
}

// ApplyGainValue multiplies the frame range [rng.Frame, rng.Frame+frames)
// of every channel of w by the scalar g, short-circuiting on g==0 (clear)
// and g==1 (no-op).
func ApplyGainValue(w Writer, rng Location, frames int, g float32) {
	switch g {
	case 0:
		for c := 0; c < w.Channels(); c++ {
			clearSlice(w.WriteChannel(c)[rng.Frame : rng.Frame+frames])
		}
		return
	case 1:
		return
	}

	for c := 0; c < w.Channels(); c++ {
		ch := w.WriteChannel(c)[rng.Frame : rng.Frame+frames]
		for i := range ch {
			ch[i] *= g
		}
	}
}

// SampleRateConvertFrom fills channels/frames of dst starting at dstLoc by
// linearly interpolating src (starting at srcLoc) from src.SampleRate()
// to dst.SampleRate(). This is deliberately simple — linear, not a
// windowed-sinc or polyphase filter — because its only caller in this
// engine is the waveshaper's 2x oversampling path (§4.8), which is
// explicitly documented as not broadcast-quality.
func SampleRateConvertFrom(dst Writer, src Reader, srcLoc, dstLoc Location, channels int) {
	if c := src.Channels() - srcLoc.Channel; c < channels {
		channels = c
	}
	if c := dst.Channels() - dstLoc.Channel; c < channels {
		channels = c
	}
	if channels <= 0 {
		return
	}

	ratio := src.SampleRate() / dst.SampleRate()
	dstFrames := dst.Frames() - dstLoc.Frame
	srcFrames := src.Frames() - srcLoc.Frame

	for c := 0; c < channels; c++ {
		s := src.ReadChannel(srcLoc.Channel + c)[srcLoc.Frame:]
		d := dst.WriteChannel(dstLoc.Channel + c)[dstLoc.Frame:]

		pos := 0.0
		for f := 0; f < dstFrames; f++ {
			i0 := int(pos)
			frac := float32(pos - float64(i0))

			var y0, y1 float32
			if i0 < srcFrames {
				y0 = s[i0]
			}
			if i0+1 < srcFrames {
				y1 = s[i0+1]
			} else {
				y1 = y0
			}

			d[f] = utils.LinearInterpolate(y0, y1, frac)
			pos += ratio
		}
	}
}

// FillFromInterleaved deinterleaves src (channelCount-interleaved float32
// samples) into w, which must already have channelCount channels and at
// least len(src)/channelCount frames.
func FillFromInterleaved(w Writer, src []float32, channelCount int) {
	frames := len(src) / channelCount
	for c := 0; c < channelCount && c < w.Channels(); c++ {
		dst := w.WriteChannel(c)
		for f := 0; f < frames && f < len(dst); f++ {
			dst[f] = src[f*channelCount+c]
		}
	}
}

// CopyToInterleaved interleaves r's channels into dst, which must be at
// least r.Channels()*r.Frames() long.
func CopyToInterleaved(dst []float32, r Reader) {
	channels := r.Channels()
	frames := r.Frames()
	for c := 0; c < channels; c++ {
		src := r.ReadChannel(c)
		for f := 0; f < frames; f++ {
			idx := f*channels + c
			if idx >= len(dst) {
				break
			}
			dst[idx] = src[f]
		}
	}
}

// CopyToInterleavedInt16 interleaves and quantizes r's channels into dst,
// which must be at least r.Channels()*r.Frames() long. This is for
// handing a captured buffer (e.g. from a Recorder notification) to a
// host that wants 16-bit PCM rather than float32; nothing on the
// realtime thread calls it.
func CopyToInterleavedInt16(dst []int16, r Reader) {
	channels := r.Channels()
	frames := r.Frames()
	for c := 0; c < channels; c++ {
		src := r.ReadChannel(c)
		for f := 0; f < frames; f++ {
			idx := f*channels + c
			if idx >= len(dst) {
				break
			}
			dst[idx] = utils.Float32ToInt16(src[f])
		}
	}
}
