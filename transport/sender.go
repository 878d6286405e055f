// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/timeline"
)

// CommandSender adapts a CommandQueue to param.ChangePoster, so that every
// ControlHandle can schedule changes without knowing about Command or
// CommandQueue directly.
type CommandSender struct {
	queue *CommandQueue
}

// NewCommandSender wraps queue for use as a param.ChangePoster.
func NewCommandSender(queue *CommandQueue) *CommandSender {
	return &CommandSender{queue: queue}
}

func (s *CommandSender) PostParameterChange(dspID, paramID ids.ID, c param.Change) {
	s.queue.TrySend(NewParameterValueChangeCommand(dspID, paramID, c))
}

func (s *CommandSender) CancelParameterChanges(dspID, paramID ids.ID, after *timeline.Timestamp) {
	s.queue.TrySend(NewCancelParameterChangesCommand(dspID, paramID, after))
}

var _ param.ChangePoster = (*CommandSender)(nil)
