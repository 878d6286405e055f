// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"sort"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/timeline"
)

// fadeDurationSeconds is the half-cosine crossfade length used on both
// voice restart and loop wraparound.
const fadeDurationSeconds = 0.050

// samplerEventKind distinguishes the pending control events a Sampler
// accepts; all are timestamped and merged into time order at block start.
type samplerEventKind int

const (
	eventStart samplerEventKind = iota
	eventStartNow
	eventStop
	eventStopNow
	eventEnableLoop
	eventCancelLoop
	eventCancelAll
)

// SamplerEvent is one control-thread-issued instruction, timestamped for
// ordered application at block boundaries.
type SamplerEvent struct {
	Kind      samplerEventKind
	Time      timeline.Timestamp
	Position  int
	LoopStart int
	LoopEnd   int
}

func NewStartEvent(position int, at timeline.Timestamp) SamplerEvent {
	return SamplerEvent{Kind: eventStart, Time: at, Position: position}
}
func NewStartNowEvent() SamplerEvent { return SamplerEvent{Kind: eventStartNow} }
func NewStopEvent(at timeline.Timestamp) SamplerEvent {
	return SamplerEvent{Kind: eventStop, Time: at}
}
func NewStopNowEvent() SamplerEvent { return SamplerEvent{Kind: eventStopNow} }
func NewEnableLoopEvent(start, end int, at timeline.Timestamp) SamplerEvent {
	return SamplerEvent{Kind: eventEnableLoop, Time: at, LoopStart: start, LoopEnd: end}
}
func NewCancelLoopEvent(at timeline.Timestamp) SamplerEvent {
	return SamplerEvent{Kind: eventCancelLoop, Time: at}
}
func NewCancelAllEvent() SamplerEvent { return SamplerEvent{Kind: eventCancelAll} }

type voicePhase int

const (
	voiceStopped voicePhase = iota
	voiceFadingIn
	voicePlaying
	voiceFadingOut
)

type voice struct {
	phase        voicePhase
	position     float64
	fadeProgress int

	// startFrame is the first frame of the current block this voice
	// renders; nonzero only for a voice started mid-block by a loop wrap.
	startFrame int
}

// Sampler plays an owned audio buffer with up to two concurrent voices, so
// that restarting or stopping can crossfade against whatever was already
// playing instead of clicking.
type Sampler struct {
	id ids.ID

	sample *buffer.Owned

	voices    [2]voice
	active    int
	loopStart int
	loopEnd   int
	looping   bool

	fadeCurve  []float32
	fadeFrames int

	incoming chan SamplerEvent
	pending  []SamplerEvent

	chanScratch [][]float32

	clk clock
}

// NewSampler constructs a Sampler over sample, which it does not copy: the
// caller must not mutate it while the engine is running. maxChannelCount
// bounds the output buffers Process will ever be handed, and
// eventQueueCapacity bounds the pending control-event channel.
func NewSampler(sampleRate float64, sample *buffer.Owned, maxChannelCount, eventQueueCapacity int) *Sampler {
	fadeFrames := int(fadeDurationSeconds * sampleRate)
	if fadeFrames < 1 {
		fadeFrames = 1
	}
	curve := make([]float32, fadeFrames)
	for i := range curve {
		curve[i] = float32(0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(fadeFrames-1))))
	}
	return &Sampler{
		id:          ids.Next(),
		sample:      sample,
		fadeCurve:   curve,
		fadeFrames:  fadeFrames,
		loopEnd:     sample.Frames(),
		incoming:    make(chan SamplerEvent, eventQueueCapacity),
		pending:     make([]SamplerEvent, 0, eventQueueCapacity),
		chanScratch: make([][]float32, maxChannelCount),
		clk:         newClock(sampleRate),
	}
}

func (s *Sampler) ID() ids.ID     { return s.id }
func (s *Sampler) NumInputs() int { return 0 }

func (s *Sampler) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

// PostEvent queues a control event for application at the start of the
// next block it falls within. Dropped if the queue is full. Safe to call
// from the control thread.
func (s *Sampler) PostEvent(e SamplerEvent) {
	select {
	case s.incoming <- e:
	default:
	}
}

func (s *Sampler) otherVoice() int { return 1 - s.active }

func (s *Sampler) startVoice(idx int, position int, immediate bool) {
	s.voices[idx].position = float64(position)
	if immediate && position == 0 {
		s.voices[idx].phase = voicePlaying
	} else {
		s.voices[idx].phase = voiceFadingIn
		s.voices[idx].fadeProgress = 0
	}
}

func (s *Sampler) stopVoice(idx int) {
	if s.voices[idx].phase == voiceStopped {
		return
	}
	s.voices[idx].phase = voiceFadingOut
	s.voices[idx].fadeProgress = 0
}

func (s *Sampler) applyEvent(e SamplerEvent) {
	switch e.Kind {
	case eventStart, eventStartNow:
		s.stopVoice(s.active)
		s.active = s.otherVoice()
		s.startVoice(s.active, e.Position, e.Kind == eventStartNow)
	case eventStop, eventStopNow:
		if e.Kind == eventStopNow {
			s.voices[0].phase = voiceStopped
			s.voices[1].phase = voiceStopped
		} else {
			s.stopVoice(s.active)
		}
	case eventEnableLoop:
		s.looping = true
		s.loopStart = e.LoopStart
		s.loopEnd = e.LoopEnd
	case eventCancelLoop:
		s.looping = false
	case eventCancelAll:
		s.pending = s.pending[:0]
		s.looping = false
		s.voices[0].phase = voiceStopped
		s.voices[1].phase = voiceStopped
	}
}

// drainEvents pulls every currently-queued event off the incoming channel,
// merges them into time order with whatever didn't fire last block, and
// applies every one whose time has arrived by blockEnd.
func (s *Sampler) drainEvents(blockEnd timeline.Timestamp) {
	for {
		select {
		case e := <-s.incoming:
			s.pending = append(s.pending, e)
		default:
			goto drained
		}
	}
drained:
	if len(s.pending) == 0 {
		return
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].Time.Before(s.pending[j].Time)
	})

	remaining := s.pending[:0]
	for _, e := range s.pending {
		if e.Kind == eventStartNow || e.Kind == eventStopNow || e.Kind == eventCancelAll || !e.Time.After(blockEnd) {
			s.applyEvent(e)
		} else {
			remaining = append(remaining, e)
		}
	}
	s.pending = remaining
}

func (s *Sampler) renderVoice(idx int, out [][]float32, frameCount int) {
	v := &s.voices[idx]
	first := v.startFrame
	v.startFrame = 0
	if v.phase == voiceStopped {
		return
	}

	channels := len(out)
	for f := first; f < frameCount; f++ {
		pos := int(v.position)

		// Reaching the loop point (including the common whole-buffer
		// loop, loopEnd == sample.Frames()) always crossfades into a
		// fresh voice at loopStart rather than hard-repositioning this
		// one, so a loop wraparound never clicks. Only a non-looping
		// voice stops outright when it runs off the end of the buffer.
		switch {
		case s.looping && pos >= s.loopEnd:
			newVoice := s.otherVoice()
			if newVoice != idx && s.voices[newVoice].phase == voiceStopped {
				s.stopVoice(idx)
				s.startVoice(newVoice, s.loopStart, false)
				s.active = newVoice
				// The new voice takes over at frame f of this block; one
				// that Process has already rendered is rendered here.
				s.voices[newVoice].startFrame = f
				if newVoice < idx {
					s.renderVoice(newVoice, out, frameCount)
				}
			}
		case !s.looping && pos >= s.sample.Frames():
			v.phase = voiceStopped
			return
		}

		gain := float32(1)
		switch v.phase {
		case voiceFadingIn:
			gain = s.fadeCurve[minInt(v.fadeProgress, s.fadeFrames-1)]
			v.fadeProgress++
			if v.fadeProgress >= s.fadeFrames {
				v.phase = voicePlaying
			}
		case voiceFadingOut:
			gain = s.fadeCurve[s.fadeFrames-1-minInt(v.fadeProgress, s.fadeFrames-1)]
			v.fadeProgress++
			if v.fadeProgress >= s.fadeFrames {
				v.phase = voiceStopped
				return
			}
		}

		if pos >= 0 && pos < s.sample.Frames() {
			for c := 0; c < channels; c++ {
				src := s.sample.ReadChannel(c % s.sample.Channels())
				out[c][f] += src[pos] * gain
			}
		}
		v.position++
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (s *Sampler) Process(_ []buffer.Reader, output buffer.Writer, frameCount int) {
	blockEnd := s.clk.now().IncrementedBySamples(frameCount, s.clk.sampleRate)
	s.drainEvents(blockEnd)

	buffer.Clear(output)
	out := s.chanScratch[:output.Channels()]
	for c := range out {
		out[c] = output.WriteChannel(c)
	}

	s.renderVoice(0, out, frameCount)
	s.renderVoice(1, out, frameCount)

	s.clk.advance(frameCount)
}
