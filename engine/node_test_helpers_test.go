// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
)

// constantNode is a zero-input generator that fills every channel of its
// output with a fixed value, for exercising the scheduler's "no incoming
// edges" path.
type constantNode struct {
	id    ids.ID
	value float32
}

func newConstantNode(value float32) *constantNode {
	return &constantNode{id: ids.Next(), value: value}
}

func (n *constantNode) ID() ids.ID     { return n.id }
func (n *constantNode) NumInputs() int { return 0 }
func (n *constantNode) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	for c := 0; c < output.Channels(); c++ {
		ch := output.WriteChannel(c)
		for i := 0; i < frameCount; i++ {
			ch[i] = n.value
		}
	}
}
func (n *constantNode) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

// gainNode copies its single input to its output, scaled by gain.
type gainNode struct {
	id   ids.ID
	gain float32
}

func newGainNode(gain float32) *gainNode {
	return &gainNode{id: ids.Next(), gain: gain}
}

func (n *gainNode) ID() ids.ID     { return n.id }
func (n *gainNode) NumInputs() int { return 1 }
func (n *gainNode) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	channels := output.Channels()
	buffer.CopyFrom(output, inputs[0], buffer.Location{}, buffer.Location{}, channels, frameCount)
	buffer.ApplyGainValue(output, buffer.Location{}, frameCount, n.gain)
}
func (n *gainNode) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

// sumNode copies its first input port directly to the output, used to
// confirm the scheduler's fan-in mixing when several edges land on the
// same input slot.
type sumNode struct {
	id ids.ID
}

func newSumNode() *sumNode { return &sumNode{id: ids.Next()} }

func (n *sumNode) ID() ids.ID     { return n.id }
func (n *sumNode) NumInputs() int { return 1 }
func (n *sumNode) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	buffer.CopyFrom(output, inputs[0], buffer.Location{}, buffer.Location{}, output.Channels(), frameCount)
}
func (n *sumNode) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }
