// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/graph"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/timeline"
	"github.com/ik5/audiograph/transport"
)

const (
	defaultSampleRate                = 48000.0
	defaultMaxFrameCount             = 1024
	defaultMaxChannelCount           = 2
	defaultBufferPoolSize            = 64
	defaultCommandQueueCapacity      = 256
	defaultNotificationQueueCapacity = 256
	defaultGCQueueCapacity           = 256
)

// Options configures a new Engine. Zero-valued fields are replaced with
// the package defaults by New.
type Options struct {
	SampleRate      float64
	MaxFrameCount   int
	MaxChannelCount int

	BufferPoolSize            int
	CommandQueueCapacity      int
	NotificationQueueCapacity int
	GCQueueCapacity           int

	// DropObserver, if set, is told about dropped commands,
	// notifications and GC handoffs. PoolObserver, if set, is told
	// about buffer pool exhaustion.
	DropObserver transport.DropObserver
	PoolObserver PoolObserver

	// Logger receives control-side lifecycle events (Start/Stop,
	// construction). Defaults to slog.Default(). Never called from
	// Process.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.SampleRate <= 0 {
		o.SampleRate = defaultSampleRate
	}
	if o.MaxFrameCount <= 0 {
		o.MaxFrameCount = defaultMaxFrameCount
	}
	if o.MaxChannelCount <= 0 {
		o.MaxChannelCount = defaultMaxChannelCount
	}
	if o.BufferPoolSize <= 0 {
		o.BufferPoolSize = defaultBufferPoolSize
	}
	if o.CommandQueueCapacity <= 0 {
		o.CommandQueueCapacity = defaultCommandQueueCapacity
	}
	if o.NotificationQueueCapacity <= 0 {
		o.NotificationQueueCapacity = defaultNotificationQueueCapacity
	}
	if o.GCQueueCapacity <= 0 {
		o.GCQueueCapacity = defaultGCQueueCapacity
	}
	return o
}

// Engine owns the processing graph, its buffer pool and scheduler, and
// the three transport queues connecting it to the control thread. All of
// Engine's methods that touch the graph or schedule a block are meant to
// be called from a single realtime thread; Context is the control-side
// handle safe to call from anywhere else.
type Engine struct {
	opts Options

	graph     *graph.Graph
	pool      *BufferPool
	scheduler *Scheduler

	commands      *transport.CommandQueue
	notifications *transport.NotificationQueue
	gc            *transport.GCQueue

	currentTime atomic.Int64 // timeline.Timestamp raw bits
	running     atomic.Bool

	outputTargets map[ids.ID]int
	inputTargets  map[ids.ID]int
}

// New builds an Engine from opts, filling unset fields with defaults.
func New(opts Options) *Engine {
	opts = opts.withDefaults()

	g := graph.New()
	pool := NewBufferPool(opts.BufferPoolSize, opts.MaxChannelCount, opts.MaxFrameCount, opts.SampleRate, opts.PoolObserver)
	scheduler := NewScheduler(g, pool, opts.MaxChannelCount, opts.MaxFrameCount, opts.SampleRate)

	opts.Logger.Debug("engine constructed",
		"sample_rate", opts.SampleRate,
		"max_frame_count", opts.MaxFrameCount,
		"max_channel_count", opts.MaxChannelCount,
		"buffer_pool_size", opts.BufferPoolSize,
	)

	return &Engine{
		opts:          opts,
		graph:         g,
		pool:          pool,
		scheduler:     scheduler,
		commands:      transport.NewCommandQueue(opts.CommandQueueCapacity, opts.DropObserver),
		notifications: transport.NewNotificationQueue(opts.NotificationQueueCapacity, opts.DropObserver),
		gc:            transport.NewGCQueue(opts.GCQueueCapacity, opts.DropObserver),
		outputTargets: make(map[ids.ID]int),
		inputTargets:  make(map[ids.ID]int),
	}
}

// SampleRate returns the engine's configured sample rate.
func (e *Engine) SampleRate() float64 { return e.opts.SampleRate }

// CurrentTime returns the timestamp of the start of the next block to be
// processed.
func (e *Engine) CurrentTime() timeline.Timestamp {
	return timeline.FromRawBits(e.currentTime.Load())
}

// CommandQueue exposes the engine's command queue, for building a
// Context or a transport.CommandSender over it.
func (e *Engine) CommandQueue() *transport.CommandQueue { return e.commands }

// Notifications exposes the engine's notification queue for the control
// thread to poll.
func (e *Engine) Notifications() *transport.NotificationQueue { return e.notifications }

// GCQueue exposes the engine's retired-object queue, to be drained by a
// background goroutine via (*transport.GCQueue).Run.
func (e *Engine) GCQueue() *transport.GCQueue { return e.gc }

// Running reports whether the engine is currently processing blocks.
func (e *Engine) Running() bool { return e.running.Load() }

// Logger returns the logger this Engine was configured with.
func (e *Engine) Logger() *slog.Logger { return e.opts.Logger }

// Start posts a command to begin processing blocks. It is safe to call
// from any thread.
func (e *Engine) Start() {
	e.opts.Logger.Info("engine start requested")
	e.commands.TrySend(transport.NewStartCommand())
}

// Stop posts a command to stop processing blocks; Process continues to
// drain commands and silence its output until Start is posted again.
func (e *Engine) Stop() {
	e.opts.Logger.Info("engine stop requested")
	e.commands.TrySend(transport.NewStopCommand())
}

// drainCommands applies every currently-queued command to the graph.
// Called at the start of every Process call, on the realtime thread.
func (e *Engine) drainCommands() {
	for {
		cmd, ok := e.commands.Receive()
		if !ok {
			return
		}
		e.apply(cmd)
	}
}

func (e *Engine) apply(cmd transport.Command) {
	switch cmd.Kind {
	case transport.Start:
		e.running.Store(true)
	case transport.Stop:
		e.running.Store(false)
	case transport.AddDsp:
		if cmd.Node != nil {
			_ = e.graph.AddNode(cmd.Node)
		}
	case transport.RemoveDsp:
		node, _ := e.graph.Node(cmd.DspID)
		retired, err := e.graph.RemoveNode(cmd.DspID)
		if err == nil {
			delete(e.outputTargets, cmd.DspID)
			delete(e.inputTargets, cmd.DspID)
			for _, edgeID := range retired {
				e.gc.TrySend(edgeID)
			}
			e.gc.TrySend(node)
		}
	case transport.AddConnection:
		_ = e.graph.AddEdge(cmd.ConnectionID, cmd.SourceID, cmd.SourceOutput, cmd.DestID, cmd.DestInput)
	case transport.RemoveConnection:
		_ = e.graph.RemoveEdge(cmd.ConnectionID)
	case transport.ConnectToInput:
		e.inputTargets[cmd.DspID] = cmd.DestInput
	case transport.ConnectToOutput:
		e.outputTargets[cmd.DspID] = cmd.SourceOutput
	case transport.ParameterValueChange:
		if node, ok := e.graph.Node(cmd.DspID); ok {
			if ev, ok := node.Param(cmd.ParamID); ok {
				ev.Append(cmd.Change)
			}
		}
	case transport.CancelParameterChanges:
		if node, ok := e.graph.Node(cmd.DspID); ok {
			if ev, ok := node.Param(cmd.ParamID); ok {
				ev.Cancel(cmd.CancelAfter)
			}
		}
	}
}

// Process drains pending commands, runs one block of the processing
// graph, and sums every node wired to the external output (via
// ConnectToOutput) into out. externalInput, if non-nil, is what
// ConnectToInput-routed nodes will read for this block.
func (e *Engine) Process(frameCount int, externalInput buffer.Reader, out buffer.Writer) error {
	e.drainCommands()

	buffer.Clear(out)

	if !e.running.Load() {
		e.currentTime.Store(e.CurrentTime().IncrementedBySamples(frameCount, e.opts.SampleRate).Bits())
		return nil
	}

	if externalInput != nil {
		for nodeID, port := range e.inputTargets {
			e.scheduler.SetExternalInput(nodeID, port, externalInput)
		}
	}

	if err := e.scheduler.ProcessBlock(frameCount, e.opts.SampleRate); err != nil {
		return err
	}

	for nodeID, port := range e.outputTargets {
		outBuf, ok := e.scheduler.Output(nodeID)
		if !ok {
			continue
		}
		buffer.AddFrom(out, outBuf, buffer.Location{}, buffer.Location{Channel: port}, outBuf.Channels(), frameCount)
		e.scheduler.ReleaseOutput(nodeID)
	}

	// Outputs of terminal nodes not wired to the external output are
	// released too, so every pool buffer is free again after the block.
	if order, err := e.graph.TopologicalOrder(); err == nil {
		for _, id := range order {
			e.scheduler.ReleaseOutput(id)
		}
	}

	e.currentTime.Store(e.CurrentTime().IncrementedBySamples(frameCount, e.opts.SampleRate).Bits())
	return nil
}
