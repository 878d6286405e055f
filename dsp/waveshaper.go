// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/utils"
)

// lutSize is the number of transfer-function samples across [-1,+1].
const lutSize = 511

// WaveshaperDriveRangeDB is the dB gain applied at an overdrive parameter
// value of 1; 0 maps to unity gain.
const WaveshaperDriveRangeDB = 24.0

// Shaper computes one point of a waveshaper's transfer function for an
// input in [-1,+1].
type Shaper func(x float64) float64

// TanhSoft is a smooth tanh-based soft clip.
func TanhSoft(x float64) float64 { return math.Tanh(x) }

// SoftSaturator is a cubic soft saturator.
func SoftSaturator(x float64) float64 {
	if x > 1 {
		return 2.0 / 3.0
	}
	if x < -1 {
		return -2.0 / 3.0
	}
	return x - (x*x*x)/3
}

// HardClip clamps to [-1,+1].
func HardClip(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	default:
		return x
	}
}

// Waveshaper runs a precomputed 511-point transfer-function LUT over a 2x
// oversampled signal, with an automated overdrive parameter and wet/dry
// mix.
type Waveshaper struct {
	id ids.ID

	OverdriveID ids.ID
	MixID       ids.ID

	overdrive *param.Evaluator
	mix       *param.Evaluator

	lut []float32

	oversampled *buffer.Owned
	shaped      *buffer.Owned
	downsampled *buffer.Owned

	clk clock
}

// NewWaveshaper builds the LUT from shaper once, at construction, and
// preallocates the 2x-oversampling scratch buffers.
func NewWaveshaper(sampleRate float64, maxFrameCount, maxChannelCount int, shaper Shaper, initialOverdrive, initialMix float64) *Waveshaper {
	lut := make([]float32, lutSize)
	for i := range lut {
		x := -1.0 + 2.0*float64(i)/float64(lutSize-1)
		lut[i] = float32(shaper(x))
	}

	return &Waveshaper{
		id:          ids.Next(),
		OverdriveID: ids.Next(),
		MixID:       ids.Next(),
		overdrive:   param.NewEvaluator(initialOverdrive, maxFrameCount),
		mix:         param.NewEvaluator(initialMix, maxFrameCount),
		lut:         lut,
		oversampled: buffer.NewOwned(maxChannelCount, maxFrameCount*2, sampleRate*2),
		shaped:      buffer.NewOwned(maxChannelCount, maxFrameCount*2, sampleRate*2),
		downsampled: buffer.NewOwned(maxChannelCount, maxFrameCount, sampleRate),
		clk:         newClock(sampleRate),
	}
}

func (w *Waveshaper) ID() ids.ID     { return w.id }
func (w *Waveshaper) NumInputs() int { return 1 }

func (w *Waveshaper) Param(paramID ids.ID) (*param.Evaluator, bool) {
	switch paramID {
	case w.OverdriveID:
		return w.overdrive, true
	case w.MixID:
		return w.mix, true
	}
	return nil, false
}

func (w *Waveshaper) lookup(x float64) float32 {
	if x < -1 {
		x = -1
	}
	if x > 1 {
		x = 1
	}
	pos := (x + 1) / 2 * float64(lutSize-1)
	i0 := int(pos)
	if i0 >= lutSize-1 {
		return w.lut[lutSize-1]
	}
	frac := float32(pos - float64(i0))
	return utils.LinearInterpolate(w.lut[i0], w.lut[i0+1], frac)
}

func (w *Waveshaper) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	now := w.clk.now()
	overdriveCurve := w.overdrive.Evaluate(now, frameCount, w.clk.sampleRate)
	mixCurve := w.mix.Evaluate(now, frameCount, w.clk.sampleRate)

	in := inputs[0]
	channels := output.Channels()

	over := buffer.NewMutView(w.oversampled, buffer.Location{}, channels, frameCount*2)
	buffer.SampleRateConvertFrom(over, in, buffer.Location{}, buffer.Location{}, channels)

	shapedView := buffer.NewMutView(w.shaped, buffer.Location{}, channels, frameCount*2)
	for c := 0; c < channels; c++ {
		src := over.ReadChannel(c)
		dst := shapedView.WriteChannel(c)
		for f := 0; f < frameCount*2; f++ {
			driveGain := float32(math.Pow(10, overdriveCurve[f/2]*WaveshaperDriveRangeDB/20))
			dst[f] = w.lookup(float64(src[f]*driveGain)) / driveGain
		}
	}

	down := buffer.NewMutView(w.downsampled, buffer.Location{}, channels, frameCount)
	buffer.SampleRateConvertFrom(down, shapedView, buffer.Location{}, buffer.Location{}, channels)

	for c := 0; c < channels; c++ {
		wet := down.ReadChannel(c)
		dry := in.ReadChannel(c)
		dst := output.WriteChannel(c)
		for f := 0; f < frameCount; f++ {
			mixv := float32(mixCurve[f])
			dst[f] = mixv*wet[f] + (1-mixv)*dry[f]
		}
	}

	w.clk.advance(frameCount)
}
