// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// Pan positions a 2-in/2-out signal in the stereo field, automated
// sample-accurately across a block. PanID's value ranges from -1 (hard
// left) to +1 (hard right); gains are l_gain = min(1, 1-p), r_gain =
// min(1, 1+p).
type Pan struct {
	id    ids.ID
	PanID ids.ID

	pan     *param.Evaluator
	scratch []float32
	clk     clock
}

// NewPan constructs a Pan starting at position initial (-1..+1).
func NewPan(sampleRate float64, maxFrameCount int, initial float64) *Pan {
	return &Pan{
		id:      ids.Next(),
		PanID:   ids.Next(),
		pan:     param.NewEvaluator(initial, maxFrameCount),
		scratch: make([]float32, maxFrameCount),
		clk:     newClock(sampleRate),
	}
}

func (p *Pan) ID() ids.ID     { return p.id }
func (p *Pan) NumInputs() int { return 1 }

func (p *Pan) PanEvaluator() *param.Evaluator { return p.pan }

func (p *Pan) Param(paramID ids.ID) (*param.Evaluator, bool) {
	if paramID == p.PanID {
		return p.pan, true
	}
	return nil, false
}

func (p *Pan) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	positions := toFloat32(p.scratch[:frameCount], p.pan.Evaluate(p.clk.now(), frameCount, p.clk.sampleRate))

	in := inputs[0]
	if output.Channels() < 2 {
		buffer.CopyFrom(output, in, buffer.Location{}, buffer.Location{}, 1, frameCount)
		p.clk.advance(frameCount)
		return
	}

	inLeft := in.ReadChannel(0)
	inRight := in.ReadChannel(1)
	outLeft := output.WriteChannel(0)
	outRight := output.WriteChannel(1)
	for f := 0; f < frameCount; f++ {
		pos := positions[f]
		lGain := float32(1)
		if v := 1 - pos; v < lGain {
			lGain = v
		}
		rGain := float32(1)
		if v := 1 + pos; v < rGain {
			rGain = v
		}
		outLeft[f] = inLeft[f] * lGain
		outRight[f] = inRight[f] * rGain
	}
	p.clk.advance(frameCount)
}
