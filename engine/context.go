// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/timeline"
	"github.com/ik5/audiograph/transport"
)

// Context is the handle a control thread uses to drive an Engine: it
// exposes exactly the subset of Engine's surface that is safe to call
// concurrently with Process running on the realtime thread, and nothing
// that would touch the graph directly.
type Context struct {
	engine *Engine
}

// NewContext wraps engine for control-thread use.
func NewContext(engine *Engine) *Context { return &Context{engine: engine} }

// Start begins block processing.
func (c *Context) Start() { c.engine.Start() }

// Stop halts block processing; the engine keeps draining commands and
// emitting silence until Start is called again.
func (c *Context) Stop() { c.engine.Stop() }

// CurrentTime returns the timestamp of the next block to be processed.
func (c *Context) CurrentTime() timeline.Timestamp { return c.engine.CurrentTime() }

// SampleRate returns the engine's sample rate.
func (c *Context) SampleRate() float64 { return c.engine.SampleRate() }

// CommandSender returns a sender for posting commands (typically wrapped
// again as a param.ChangePoster per parameter).
func (c *Context) CommandSender() *transport.CommandSender {
	return transport.NewCommandSender(c.engine.CommandQueue())
}

// AddDsp posts a command to insert node into the graph.
func (c *Context) AddDsp(node transport.DspNode) {
	c.engine.CommandQueue().TrySend(transport.NewAddDspCommand(node))
}

// RemoveDsp posts a command to remove a node from the graph.
func (c *Context) RemoveDsp(dspID ids.ID) {
	c.engine.CommandQueue().TrySend(transport.NewRemoveDspCommand(dspID))
}

// Connect posts a command to wire sourceID's sourceOutput to destID's
// destInput, returning the new connection's id for a later Disconnect.
func (c *Context) Connect(sourceID ids.ID, sourceOutput int, destID ids.ID, destInput int) ids.ID {
	connectionID := ids.Next()
	c.engine.CommandQueue().TrySend(transport.NewAddConnectionCommand(connectionID, sourceID, sourceOutput, destID, destInput))
	return connectionID
}

// Disconnect posts a command to remove a previously added connection.
func (c *Context) Disconnect(connectionID ids.ID) {
	c.engine.CommandQueue().TrySend(transport.NewRemoveConnectionCommand(connectionID))
}

// ConnectToInput posts a command to route the engine's external input
// to dspID's destInput.
func (c *Context) ConnectToInput(dspID ids.ID, destInput int) {
	c.engine.CommandQueue().TrySend(transport.NewConnectToInputCommand(dspID, destInput))
}

// ConnectToOutput posts a command to sum dspID's sourceOutput into the
// engine's external output.
func (c *Context) ConnectToOutput(dspID ids.ID, sourceOutput int) {
	c.engine.CommandQueue().TrySend(transport.NewConnectToOutputCommand(dspID, sourceOutput))
}

// ProcessNotifications drains every currently-queued notification,
// calling handler for each. It should be polled regularly by the control
// thread; it never blocks.
func (c *Context) ProcessNotifications(handler func(transport.Notification)) {
	for {
		n, ok := c.engine.Notifications().Receive()
		if !ok {
			return
		}
		handler(n)
	}
}
