// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// Compressor is a per-channel envelope-follower gain reducer with a
// soft-knee threshold, driven by automated threshold/ratio/attack/release/
// knee/makeup/mix parameters.
type Compressor struct {
	id ids.ID

	ThresholdID ids.ID
	RatioID     ids.ID
	AttackID    ids.ID
	ReleaseID   ids.ID
	KneeID      ids.ID
	MakeupID    ids.ID
	MixID       ids.ID

	threshold *param.Evaluator
	ratio     *param.Evaluator
	attack    *param.Evaluator
	release   *param.Evaluator
	knee      *param.Evaluator
	makeup    *param.Evaluator
	mix       *param.Evaluator

	envelopes []float64

	clk clock
}

// NewCompressor constructs a Compressor for up to maxChannelCount
// channels. thresholdDb and ratio are the initial values; attack/release
// are initial time constants in seconds; knee is the soft-knee width in
// dB; makeup is initial linear makeup gain; mix is the initial wet/dry mix
// (0=dry, 1=fully compressed).
func NewCompressor(sampleRate float64, maxFrameCount, maxChannelCount int, thresholdDb, ratio, attackSeconds, releaseSeconds, kneeDb, makeup, mix float64) *Compressor {
	return &Compressor{
		id:          ids.Next(),
		ThresholdID: ids.Next(),
		RatioID:     ids.Next(),
		AttackID:    ids.Next(),
		ReleaseID:   ids.Next(),
		KneeID:      ids.Next(),
		MakeupID:    ids.Next(),
		MixID:       ids.Next(),
		threshold:   param.NewEvaluator(thresholdDb, maxFrameCount),
		ratio:       param.NewEvaluator(ratio, maxFrameCount),
		attack:      param.NewEvaluator(attackSeconds, maxFrameCount),
		release:     param.NewEvaluator(releaseSeconds, maxFrameCount),
		knee:        param.NewEvaluator(kneeDb, maxFrameCount),
		makeup:      param.NewEvaluator(makeup, maxFrameCount),
		mix:         param.NewEvaluator(mix, maxFrameCount),
		envelopes:   make([]float64, maxChannelCount),
		clk:         newClock(sampleRate),
	}
}

func (c *Compressor) ID() ids.ID     { return c.id }
func (c *Compressor) NumInputs() int { return 1 }

func (c *Compressor) Param(paramID ids.ID) (*param.Evaluator, bool) {
	switch paramID {
	case c.ThresholdID:
		return c.threshold, true
	case c.RatioID:
		return c.ratio, true
	case c.AttackID:
		return c.attack, true
	case c.ReleaseID:
		return c.release, true
	case c.KneeID:
		return c.knee, true
	case c.MakeupID:
		return c.makeup, true
	case c.MixID:
		return c.mix, true
	}
	return nil, false
}

// gainReductionDb computes the soft-knee transfer curve: L' below T-W/2 is
// L unchanged, above T+W/2 is T + (L-T)/ratio, and a quadratic
// interpolation bridges the knee.
func gainReductionDb(levelDb, thresholdDb, ratio, kneeDb float64) float64 {
	half := kneeDb / 2
	switch {
	case levelDb < thresholdDb-half:
		return levelDb
	case levelDb > thresholdDb+half:
		return thresholdDb + (levelDb-thresholdDb)/ratio
	default:
		x := levelDb - thresholdDb + half
		return levelDb + (1/ratio-1)*(x*x)/(2*kneeDb)
	}
}

func (c *Compressor) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	now := c.clk.now()
	thresholdCurve := c.threshold.Evaluate(now, frameCount, c.clk.sampleRate)
	ratioCurve := c.ratio.Evaluate(now, frameCount, c.clk.sampleRate)
	attackCurve := c.attack.Evaluate(now, frameCount, c.clk.sampleRate)
	releaseCurve := c.release.Evaluate(now, frameCount, c.clk.sampleRate)
	kneeCurve := c.knee.Evaluate(now, frameCount, c.clk.sampleRate)
	makeupCurve := c.makeup.Evaluate(now, frameCount, c.clk.sampleRate)
	mixCurve := c.mix.Evaluate(now, frameCount, c.clk.sampleRate)

	in := inputs[0]
	for ch := 0; ch < output.Channels() && ch < len(c.envelopes); ch++ {
		src := in.ReadChannel(ch)
		dst := output.WriteChannel(ch)
		env := c.envelopes[ch]

		for f := 0; f < frameCount; f++ {
			x := float64(src[f])
			abs := math.Abs(x)

			tau := releaseCurve[f]
			if abs > env {
				tau = attackCurve[f]
			}
			alpha := 1.0
			if tau > 0 {
				alpha = math.Exp(-1.0 / (c.clk.sampleRate * tau))
			}
			env = alpha*env + (1-alpha)*abs

			levelDb := -200.0
			if env > 0 {
				levelDb = 20 * math.Log10(env)
			}
			knee := kneeCurve[f]
			if knee <= 0 {
				knee = 1e-6
			}
			targetDb := gainReductionDb(levelDb, thresholdCurve[f], ratioCurve[f], knee)

			gain := math.Pow(10, (targetDb-levelDb)/20) * makeupCurve[f]
			mixv := mixCurve[f]

			dst[f] = float32(mixv*(x*gain) + (1-mixv)*x)
		}
		c.envelopes[ch] = env
	}
	c.clk.advance(frameCount)
}
