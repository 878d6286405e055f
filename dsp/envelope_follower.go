// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/transport"
)

// EnvelopeFollower tracks a per-channel running peak and emits one
// EnvelopePeakNotification per channel whenever its notification interval
// elapses, passing the input through unchanged.
type EnvelopeFollower struct {
	id ids.ID

	attackSeconds  float64
	releaseSeconds float64
	intervalFrames int

	envelopes      []float64
	peaks          []float64
	framesInWindow int

	notifications *transport.NotificationQueue

	clk clock
}

// NewEnvelopeFollower constructs an EnvelopeFollower for up to
// maxChannelCount channels, posting peak notifications to queue every
// intervalSeconds.
func NewEnvelopeFollower(sampleRate float64, maxChannelCount int, attackSeconds, releaseSeconds, intervalSeconds float64, queue *transport.NotificationQueue) *EnvelopeFollower {
	return &EnvelopeFollower{
		id:             ids.Next(),
		attackSeconds:  attackSeconds,
		releaseSeconds: releaseSeconds,
		intervalFrames: int(intervalSeconds * sampleRate),
		envelopes:      make([]float64, maxChannelCount),
		peaks:          make([]float64, maxChannelCount),
		notifications:  queue,
		clk:            newClock(sampleRate),
	}
}

func (e *EnvelopeFollower) ID() ids.ID     { return e.id }
func (e *EnvelopeFollower) NumInputs() int { return 1 }

func (e *EnvelopeFollower) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

func (e *EnvelopeFollower) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	in := inputs[0]
	buffer.CopyFrom(output, in, buffer.Location{}, buffer.Location{}, output.Channels(), frameCount)

	for ch := 0; ch < output.Channels() && ch < len(e.envelopes); ch++ {
		src := in.ReadChannel(ch)
		env := e.envelopes[ch]
		peak := e.peaks[ch]

		for f := 0; f < frameCount; f++ {
			abs := math.Abs(float64(src[f]))
			tau := e.releaseSeconds
			if abs > env {
				tau = e.attackSeconds
			}
			alpha := 1.0
			if tau > 0 {
				alpha = math.Exp(-1.0 / (e.clk.sampleRate * tau))
			}
			env = alpha*env + (1-alpha)*abs
			if env > peak {
				peak = env
			}
		}
		e.envelopes[ch] = env
		e.peaks[ch] = peak
	}

	e.framesInWindow += frameCount
	if e.intervalFrames > 0 && e.framesInWindow >= e.intervalFrames {
		now := e.clk.now()
		for ch := range e.peaks {
			e.notifications.TrySend(transport.NewEnvelopePeakNotification(e.id, e.peaks[ch], now))
			e.peaks[ch] = 0
		}
		e.framesInWindow = 0
	}

	e.clk.advance(frameCount)
}
