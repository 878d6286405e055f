// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// adsrStage is one state of the ADSR envelope's state machine.
type adsrStage int

const (
	adsrIdle adsrStage = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

// overshoot targets used when deriving the per-sample exponential
// coefficient for each stage: attack overshoots past 1.0 and decay/release
// undershoot past 0.0, which is what gives an RC-charge envelope its
// characteristic curvature instead of linear ramps.
const (
	attackOvershoot  = 1.1
	decayOvershoot   = -0.1
	releaseOvershoot = -0.1
)

// AdsrParams holds the three stage durations, in seconds, plus the sustain
// level the envelope holds at until NoteOff.
type AdsrParams struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Adsr is a per-voice envelope generator: NoteOn begins the attack stage,
// NoteOff begins the release stage from wherever the envelope currently
// sits, and the output is the input scaled by the current envelope value.
type Adsr struct {
	id ids.ID

	params AdsrParams

	stage       adsrStage
	level       float64
	coefficient float64
	target      float64

	clk clock

	pendingNoteOn  bool
	pendingNoteOff bool
}

// NewAdsr constructs an Adsr with the given stage parameters.
func NewAdsr(sampleRate float64, params AdsrParams) *Adsr {
	return &Adsr{
		id:     ids.Next(),
		params: params,
		stage:  adsrIdle,
		clk:    newClock(sampleRate),
	}
}

func (a *Adsr) ID() ids.ID     { return a.id }
func (a *Adsr) NumInputs() int { return 1 }

// Param reports no automated parameters: the envelope is driven by NoteOn
// and NoteOff, not by a param.Evaluator curve.
func (a *Adsr) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

// ADSREventKind names an Adsr gate trigger, adapted from the original
// source's AdsrEventType enum. The SetAttack/SetDecay/SetSustain/
// SetRelease variants there are out of scope here: an Adsr's stage
// durations are fixed for its lifetime via AdsrParams.
type ADSREventKind int

const (
	ADSRNoteOn ADSREventKind = iota
	ADSRNoteOff
)

// ADSREvent is a single gate trigger, applied at the start of the next
// Process call.
type ADSREvent struct {
	Kind ADSREventKind
}

// Trigger applies e. NoteOn restarts the envelope from attack wherever it
// currently sits (no forced reset to zero); NoteOff begins the release
// stage from wherever it currently sits.
func (a *Adsr) Trigger(e ADSREvent) {
	switch e.Kind {
	case ADSRNoteOn:
		a.pendingNoteOn = true
	case ADSRNoteOff:
		a.pendingNoteOff = true
	}
}

// NoteOn restarts the envelope from attack on the next Process call,
// wherever the envelope currently sits (no forced reset to zero).
func (a *Adsr) NoteOn() { a.Trigger(ADSREvent{Kind: ADSRNoteOn}) }

// NoteOff begins the release stage on the next Process call.
func (a *Adsr) NoteOff() { a.Trigger(ADSREvent{Kind: ADSRNoteOff}) }

func coefficient(start, end, target float64, seconds, sampleRate float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return math.Exp(math.Log((target-end)/(target-start)) / (seconds * sampleRate))
}

func (a *Adsr) enterAttack() {
	a.stage = adsrAttack
	a.target = attackOvershoot
	a.coefficient = coefficient(a.level, 1.0, a.target, a.params.Attack, a.clk.sampleRate)
}

func (a *Adsr) enterDecay() {
	a.stage = adsrDecay
	a.target = decayOvershoot
	a.coefficient = coefficient(1.0, a.params.Sustain, a.target, a.params.Decay, a.clk.sampleRate)
}

func (a *Adsr) enterSustain() {
	a.stage = adsrSustain
	a.level = a.params.Sustain
}

func (a *Adsr) enterRelease() {
	a.stage = adsrRelease
	a.target = releaseOvershoot
	a.coefficient = coefficient(a.level, 0.0, a.target, a.params.Release, a.clk.sampleRate)
}

func (a *Adsr) enterIdle() {
	a.stage = adsrIdle
	a.level = 0
}

func (a *Adsr) step() float64 {
	if a.pendingNoteOn {
		a.pendingNoteOn = false
		a.pendingNoteOff = false
		a.enterAttack()
	}
	if a.pendingNoteOff && a.stage != adsrIdle && a.stage != adsrRelease {
		a.pendingNoteOff = false
		a.enterRelease()
	}

	switch a.stage {
	case adsrIdle:
		return 0
	case adsrAttack:
		a.level = a.target + a.coefficient*(a.level-a.target)
		if a.level >= 1.0 {
			a.level = 1.0
			a.enterDecay()
		}
	case adsrDecay:
		a.level = a.target + a.coefficient*(a.level-a.target)
		if a.level <= a.params.Sustain {
			a.enterSustain()
		}
	case adsrSustain:
		a.level = a.params.Sustain
	case adsrRelease:
		a.level = a.target + a.coefficient*(a.level-a.target)
		if a.level <= 0.0 {
			a.enterIdle()
		}
	}
	return a.level
}

func (a *Adsr) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	in := inputs[0]
	for f := 0; f < frameCount; f++ {
		env := float32(a.step())
		for c := 0; c < output.Channels(); c++ {
			src := in.ReadChannel(c)
			output.WriteChannel(c)[f] = src[f] * env
		}
	}
	a.clk.advance(frameCount)
}
