// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// FilterType selects a Biquad's RBJ coefficient derivation.
type FilterType int

const (
	LowPass FilterType = iota
	HighPass
	BandPass
	Notch
	LowShelf
	HighShelf
)

const denormalFloor = 1e-8

type biquadCoefficients struct {
	b0, b1, b2, a1, a2 float64
}

// biquadState is the per-channel Direct Form I state: [x1,x2,y1,y2].
type biquadState struct {
	x1, x2, y1, y2 float64
}

func (s *biquadState) flushDenormals() {
	if math.Abs(s.x1) < denormalFloor {
		s.x1 = 0
	}
	if math.Abs(s.x2) < denormalFloor {
		s.x2 = 0
	}
	if math.Abs(s.y1) < denormalFloor {
		s.y1 = 0
	}
	if math.Abs(s.y2) < denormalFloor {
		s.y2 = 0
	}
}

// Biquad is a single second-order IIR filter, one of six RBJ-derived
// types, run independently per channel in Direct Form I.
type Biquad struct {
	id ids.ID

	FreqID      ids.ID
	QID         ids.ID
	ShelfGainID ids.ID

	filterType FilterType

	freq      *param.Evaluator
	q         *param.Evaluator
	shelfGain *param.Evaluator

	coeffs biquadCoefficients
	states []biquadState

	lastFreq, lastQ, lastShelfGain float64
	clk                            clock
}

// NewBiquad constructs a Biquad of the given type with initial freq (Hz),
// Q and shelf gain (dB, used only by LowShelf/HighShelf).
func NewBiquad(sampleRate float64, maxFrameCount, maxChannelCount int, filterType FilterType, freq, q, shelfGain float64) *Biquad {
	b := &Biquad{
		id:          ids.Next(),
		FreqID:      ids.Next(),
		QID:         ids.Next(),
		ShelfGainID: ids.Next(),
		filterType:  filterType,
		freq:      param.NewEvaluator(freq, maxFrameCount),
		q:         param.NewEvaluator(q, maxFrameCount),
		shelfGain: param.NewEvaluator(shelfGain, maxFrameCount),
		states:    make([]biquadState, maxChannelCount),
		clk:       newClock(sampleRate),
	}
	b.lastFreq, b.lastQ, b.lastShelfGain = math.NaN(), math.NaN(), math.NaN()
	return b
}

func (b *Biquad) ID() ids.ID     { return b.id }
func (b *Biquad) NumInputs() int { return 1 }

func (b *Biquad) Param(paramID ids.ID) (*param.Evaluator, bool) {
	switch paramID {
	case b.FreqID:
		return b.freq, true
	case b.QID:
		return b.q, true
	case b.ShelfGainID:
		return b.shelfGain, true
	}
	return nil, false
}

// rbjCoefficients derives normalized (a0==1) coefficients following the
// Audio EQ Cookbook formulas, per filterType.
func rbjCoefficients(filterType FilterType, freq, q, shelfGainDb, sampleRate float64) biquadCoefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64

	switch filterType {
	case LowPass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case HighPass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case Notch:
		b0 = 1
		b1 = -2 * cosW0
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case LowShelf:
		A := math.Pow(10, shelfGainDb/40)
		beta := sinW0 * math.Sqrt((A*A+1)/q-(A-1)*(A-1))
		b0 = A * ((A + 1) - (A-1)*cosW0 + beta)
		b1 = 2 * A * ((A - 1) - (A+1)*cosW0)
		b2 = A * ((A + 1) - (A-1)*cosW0 - beta)
		a0 = (A + 1) + (A-1)*cosW0 + beta
		a1 = -2 * ((A - 1) + (A+1)*cosW0)
		a2 = (A + 1) + (A-1)*cosW0 - beta
	case HighShelf:
		A := math.Pow(10, shelfGainDb/40)
		beta := sinW0 * math.Sqrt((A*A+1)/q-(A-1)*(A-1))
		b0 = A * ((A + 1) + (A-1)*cosW0 + beta)
		b1 = -2 * A * ((A - 1) + (A+1)*cosW0)
		b2 = A * ((A + 1) + (A-1)*cosW0 - beta)
		a0 = (A + 1) - (A-1)*cosW0 + beta
		a1 = 2 * ((A - 1) - (A+1)*cosW0)
		a2 = (A + 1) - (A-1)*cosW0 - beta
	}

	return biquadCoefficients{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

func (b *Biquad) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	freqCurve := b.freq.Evaluate(b.clk.now(), frameCount, b.clk.sampleRate)
	qCurve := b.q.Evaluate(b.clk.now(), frameCount, b.clk.sampleRate)
	gainCurve := b.shelfGain.Evaluate(b.clk.now(), frameCount, b.clk.sampleRate)

	in := inputs[0]
	for c := 0; c < output.Channels() && c < len(b.states); c++ {
		src := in.ReadChannel(c)
		dst := output.WriteChannel(c)
		state := &b.states[c]

		for f := 0; f < frameCount; f++ {
			freq := freqCurve[f]
			q := qCurve[f]
			gain := gainCurve[f]
			if freq != b.lastFreq || q != b.lastQ || gain != b.lastShelfGain {
				b.coeffs = rbjCoefficients(b.filterType, freq, q, gain, b.clk.sampleRate)
				b.lastFreq, b.lastQ, b.lastShelfGain = freq, q, gain
			}

			x0 := float64(src[f])
			y0 := b.coeffs.b0*x0 + b.coeffs.b1*state.x1 + b.coeffs.b2*state.x2 -
				b.coeffs.a1*state.y1 - b.coeffs.a2*state.y2

			state.x2, state.x1 = state.x1, x0
			state.y2, state.y1 = state.y1, y0
			state.flushDenormals()

			dst[f] = float32(y0)
		}
	}
	b.clk.advance(frameCount)
}
