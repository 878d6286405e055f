// SPDX-License-Identifier: EPL-2.0

// Package transport carries messages between the control thread and the
// realtime audio thread: commands flow control-to-realtime, notifications
// flow realtime-to-control, and a third channel carries objects the
// realtime thread has retired to a background goroutine for deallocation.
// All three are bounded and never block the realtime thread: a full queue
// drops the newest message rather than stalling an audio callback.
package transport

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/timeline"
)

// DspNode is the minimal shape the graph and engine need from a
// processing node; it is defined here, rather than in a package the dsp
// and graph packages both depend on, so that transport can carry one
// without creating an import cycle between graph, engine and dsp.
type DspNode interface {
	ID() ids.ID
	// NumInputs reports how many input ports Process expects in its
	// inputs slice; unconnected ports arrive as a silent Reader.
	NumInputs() int
	Process(inputs []buffer.Reader, output buffer.Writer, frameCount int)
	// Param looks up one of the node's automated parameters by id, for
	// routing ParameterValueChange and CancelParameterChanges commands.
	Param(paramID ids.ID) (*param.Evaluator, bool)
}

// CommandKind discriminates the variant carried by a Command.
type CommandKind int

const (
	Start CommandKind = iota
	Stop
	AddDsp
	RemoveDsp
	AddConnection
	RemoveConnection
	ConnectToInput
	ConnectToOutput
	ParameterValueChange
	CancelParameterChanges
)

// Command is a single instruction posted from the control thread to the
// realtime thread. Only the fields relevant to Kind are populated; the
// rest are zero value.
type Command struct {
	Kind CommandKind

	Node DspNode

	DspID, ParamID, ConnectionID ids.ID

	SourceID     ids.ID
	SourceOutput int
	DestID       ids.ID
	DestInput    int

	Change      param.Change
	CancelAfter *timeline.Timestamp
}

func NewStartCommand() Command { return Command{Kind: Start} }
func NewStopCommand() Command  { return Command{Kind: Stop} }

func NewAddDspCommand(node DspNode) Command {
	return Command{Kind: AddDsp, Node: node}
}

func NewRemoveDspCommand(dspID ids.ID) Command {
	return Command{Kind: RemoveDsp, DspID: dspID}
}

// NewAddConnectionCommand carries connectionID, allocated by the caller
// (see graph.Graph.AddEdge), so that RemoveConnection can be posted later
// without waiting for the realtime thread to report the new edge's id.
func NewAddConnectionCommand(connectionID, sourceID ids.ID, sourceOutput int, destID ids.ID, destInput int) Command {
	return Command{
		Kind:         AddConnection,
		ConnectionID: connectionID,
		SourceID:     sourceID,
		SourceOutput: sourceOutput,
		DestID:       destID,
		DestInput:    destInput,
	}
}

func NewRemoveConnectionCommand(connectionID ids.ID) Command {
	return Command{Kind: RemoveConnection, ConnectionID: connectionID}
}

// NewConnectToInputCommand wires one of the engine's external inputs to
// dspID's destInput.
func NewConnectToInputCommand(dspID ids.ID, destInput int) Command {
	return Command{Kind: ConnectToInput, DspID: dspID, DestInput: destInput}
}

// NewConnectToOutputCommand wires dspID's sourceOutput to one of the
// engine's external outputs.
func NewConnectToOutputCommand(dspID ids.ID, sourceOutput int) Command {
	return Command{Kind: ConnectToOutput, DspID: dspID, SourceOutput: sourceOutput}
}

func NewParameterValueChangeCommand(dspID, paramID ids.ID, c param.Change) Command {
	return Command{Kind: ParameterValueChange, DspID: dspID, ParamID: paramID, Change: c}
}

func NewCancelParameterChangesCommand(dspID, paramID ids.ID, after *timeline.Timestamp) Command {
	return Command{Kind: CancelParameterChanges, DspID: dspID, ParamID: paramID, CancelAfter: after}
}
