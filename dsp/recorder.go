// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/ids"
	"github.com/ik5/audiograph/param"
	"github.com/ik5/audiograph/transport"
)

// recorderCaptureFrames is the fixed size of every capture buffer in a
// Recorder's rolling pool.
const recorderCaptureFrames = 4096

// recorderPoolSize is the number of capture buffers the pool holds.
const recorderPoolSize = 32

// Recorder drains its input into a rolling pool of fixed-size capture
// buffers, sending each one as a notification when it fills, and flushing
// the partially-filled current buffer on Stop.
type Recorder struct {
	id ids.ID

	channels int

	pool     []*buffer.Owned
	free     []int
	current  *buffer.Owned
	writePos int

	recording bool

	notifications *transport.NotificationQueue

	clk clock
}

// NewRecorder constructs a Recorder for the given channel count, posting
// notifications to queue.
func NewRecorder(sampleRate float64, channelCount int, queue *transport.NotificationQueue) *Recorder {
	r := &Recorder{
		id:            ids.Next(),
		channels:      channelCount,
		pool:          make([]*buffer.Owned, recorderPoolSize),
		free:          make([]int, 0, recorderPoolSize),
		notifications: queue,
		clk:           newClock(sampleRate),
	}
	for i := range r.pool {
		r.pool[i] = buffer.NewOwned(channelCount, recorderCaptureFrames, sampleRate)
		r.free = append(r.free, i)
	}
	return r
}

func (r *Recorder) ID() ids.ID     { return r.id }
func (r *Recorder) NumInputs() int { return 1 }

func (r *Recorder) Param(ids.ID) (*param.Evaluator, bool) { return nil, false }

// Start begins recording, acquiring a fresh capture buffer if needed.
func (r *Recorder) Start() {
	if r.recording {
		return
	}
	r.recording = true
	r.notifications.TrySend(transport.NewRecorderStartedNotification(r.id, r.clk.now()))
	r.acquireCurrent()
}

// Stop ends recording, flushing whatever is in the current capture
// buffer even if it isn't full.
func (r *Recorder) Stop() {
	if !r.recording {
		return
	}
	r.recording = false
	r.flushCurrent()
	r.notifications.TrySend(transport.NewRecorderStoppedNotification(r.id, r.clk.now()))
}

// Recycle returns a drained capture buffer (previously handed out via a
// RecorderBufferFull notification) back to the free pool.
func (r *Recorder) Recycle(buf *buffer.Owned) {
	for i, p := range r.pool {
		if p == buf {
			buf.Resize(recorderCaptureFrames)
			r.free = append(r.free, i)
			return
		}
	}
}

func (r *Recorder) acquireCurrent() {
	if len(r.free) == 0 {
		r.current = nil
		return
	}
	idx := r.free[len(r.free)-1]
	r.free = r.free[:len(r.free)-1]
	r.current = r.pool[idx]
	r.writePos = 0
}

func (r *Recorder) flushCurrent() {
	if r.current == nil || r.writePos == 0 {
		r.current = nil
		return
	}
	full := r.current
	full.Resize(r.writePos)
	r.notifications.TrySend(transport.NewRecorderBufferFullNotification(r.id, full, r.clk.now()))
	r.current = nil
}

func (r *Recorder) Process(inputs []buffer.Reader, output buffer.Writer, frameCount int) {
	in := inputs[0]
	buffer.CopyFrom(output, in, buffer.Location{}, buffer.Location{}, output.Channels(), frameCount)

	if !r.recording {
		r.clk.advance(frameCount)
		return
	}

	remaining := frameCount
	srcOffset := 0
	for remaining > 0 {
		if r.current == nil {
			r.acquireCurrent()
			if r.current == nil {
				break
			}
		}

		space := recorderCaptureFrames - r.writePos
		n := remaining
		if n > space {
			n = space
		}

		for c := 0; c < r.channels && c < in.Channels(); c++ {
			src := in.ReadChannel(c)[srcOffset : srcOffset+n]
			dst := r.current.WriteChannel(c)[r.writePos : r.writePos+n]
			copy(dst, src)
		}

		r.writePos += n
		srcOffset += n
		remaining -= n

		if r.writePos >= recorderCaptureFrames {
			r.flushCurrent()
		}
	}

	r.clk.advance(frameCount)
}
