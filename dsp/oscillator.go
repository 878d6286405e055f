// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// wavetableSize is the number of entries in the default sine wavetable.
const wavetableSize = 8192

func sineWavetable() []float32 {
	table := make([]float32, wavetableSize)
	for i := range table {
		table[i] = float32(math.Sin(2 * math.Pi * float64(i) / float64(wavetableSize)))
	}
	return table
}

// Oscillator is a free-running wavetable generator with an automated
// frequency parameter. It has no input.
type Oscillator struct {
	id ids.ID

	FreqID ids.ID
	freq   *param.Evaluator

	table []float32
	phase float64

	clk clock
}

// NewOscillator constructs an Oscillator reading the built-in 8192-entry
// sine table at initialFreq Hz. Pass a non-nil table to supply a custom
// one-period waveform instead.
func NewOscillator(sampleRate float64, maxFrameCount int, initialFreq float64, table []float32) *Oscillator {
	if table == nil {
		table = sineWavetable()
	}
	return &Oscillator{
		id:     ids.Next(),
		FreqID: ids.Next(),
		freq:   param.NewEvaluator(initialFreq, maxFrameCount),
		table:  table,
		clk:    newClock(sampleRate),
	}
}

func (o *Oscillator) ID() ids.ID     { return o.id }
func (o *Oscillator) NumInputs() int { return 0 }

func (o *Oscillator) Param(paramID ids.ID) (*param.Evaluator, bool) {
	if paramID == o.FreqID {
		return o.freq, true
	}
	return nil, false
}

func (o *Oscillator) lookup(phase float64) float32 {
	n := len(o.table)
	pos := phase * float64(n)
	i0 := int(pos) % n
	i1 := (i0 + 1) % n
	frac := float32(pos - math.Floor(pos))
	return o.table[i0] + (o.table[i1]-o.table[i0])*frac
}

func (o *Oscillator) Process(_ []buffer.Reader, output buffer.Writer, frameCount int) {
	freqCurve := o.freq.Evaluate(o.clk.now(), frameCount, o.clk.sampleRate)

	ch0 := output.WriteChannel(0)
	for f := 0; f < frameCount; f++ {
		ch0[f] = o.lookup(o.phase)
		o.phase += freqCurve[f] / o.clk.sampleRate
		o.phase -= math.Floor(o.phase)
	}
	for c := 1; c < output.Channels(); c++ {
		copy(output.WriteChannel(c), ch0)
	}
	o.clk.advance(frameCount)
}
