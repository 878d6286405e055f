// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/timeline"
)

// MaxMixerChannels bounds the Mixer's routing matrix on each side.
const MaxMixerChannels = 8

// MixerUpdate replaces a single matrix entry: output[o] += matrix[i][o] * input[i].
type MixerUpdate struct {
	Input  int
	Output int
	Level  timeline.Level
}

// Mixer holds an up-to-8x8 matrix of Levels: output[o,f] = sum_i
// matrix[i][o] * input[i,f]. Matrix updates arrive over a bounded channel
// and take effect at the start of the block in which they're drained,
// never mid-block.
type Mixer struct {
	id ids.ID

	numInputs int
	matrix    [MaxMixerChannels][MaxMixerChannels]timeline.Level

	updates chan MixerUpdate
	clk     clock
}

// NewMixer constructs a Mixer accepting numInputs inputs (<= MaxMixerChannels),
// with every matrix entry initially silent, and a bounded update channel of
// the given capacity.
func NewMixer(sampleRate float64, numInputs, updateQueueCapacity int) *Mixer {
	if numInputs > MaxMixerChannels {
		numInputs = MaxMixerChannels
	}
	return &Mixer{
		id:        ids.Next(),
		numInputs: numInputs,
		updates:   make(chan MixerUpdate, updateQueueCapacity),
		clk:       newClock(sampleRate),
	}
}

func (m *Mixer) ID() ids.ID     { return m.id }
func (m *Mixer) NumInputs() int { return m.numInputs }

func (m *Mixer) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

// PostUpdate enqueues a matrix entry change, dropping it if the update
// channel is full. Safe to call from the control thread.
func (m *Mixer) PostUpdate(u MixerUpdate) {
	select {
	case m.updates <- u:
	default:
	}
}

// drainUpdates applies every currently-queued matrix update. Called once
// at the start of each Process, never mid-block.
func (m *Mixer) drainUpdates() {
	for {
		select {
		case u := <-m.updates:
			if u.Input >= 0 && u.Input < MaxMixerChannels && u.Output >= 0 && u.Output < MaxMixerChannels {
				m.matrix[u.Input][u.Output] = u.Level
			}
		default:
			return
		}
	}
}

func (m *Mixer) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	m.drainUpdates()
	buffer.Clear(output)

	for i := 0; i < len(inputs) && i < MaxMixerChannels; i++ {
		in := inputs[i]
		if in == nil {
			continue
		}
		for o := 0; o < output.Channels() && o < MaxMixerChannels; o++ {
			gain := m.matrix[i][o].AsLinear()
			if gain == 0 {
				continue
			}
			buffer.AddFromWithGain(output, in, buffer.Location{}, buffer.Location{Channel: o}, 1, frameCount, float32(gain))
		}
	}
	m.clk.advance(frameCount)
}
