// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// Gain scales every channel of its single input by an automated linear
// gain value, sample-accurately across a block.
type Gain struct {
	id      ids.ID
	GainID  ids.ID
	gain    *param.Evaluator
	scratch []float32
	clk     clock
}

// NewGain constructs a Gain starting at linear value initial.
func NewGain(sampleRate float64, maxFrameCount int, initial float64) *Gain {
	return &Gain{
		id:      ids.Next(),
		GainID:  ids.Next(),
		gain:    param.NewEvaluator(initial, maxFrameCount),
		scratch: make([]float32, maxFrameCount),
		clk:     newClock(sampleRate),
	}
}

func (g *Gain) ID() ids.ID     { return g.id }
func (g *Gain) NumInputs() int { return 1 }

// GainEvaluator exposes the shared atomic backing the gain parameter, for
// building a param.ControlHandle over it.
func (g *Gain) GainEvaluator() *param.Evaluator { return g.gain }

func (g *Gain) Param(paramID ids.ID) (*param.Evaluator, bool) {
	if paramID == g.GainID {
		return g.gain, true
	}
	return nil, false
}

func (g *Gain) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	curve := toFloat32(g.scratch[:frameCount], g.gain.Evaluate(g.clk.now(), frameCount, g.clk.sampleRate))
	buffer.CopyFrom(output, inputs[0], buffer.Location{}, buffer.Location{}, output.Channels(), frameCount)
	buffer.ApplyGain(output, curve)
	g.clk.advance(frameCount)
}
