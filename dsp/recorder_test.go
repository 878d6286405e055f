// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"testing"

	"github.com/ik5/audiograph/buffer"
	"github.com/ik5/audiograph/transport"
)

func TestRecorderPassesInputThroughWhileIdle(t *testing.T) {
	t.Parallel()

	queue := transport.NewNotificationQueue(8, nil)
	r := NewRecorder(48000, 1, queue)

	in := newMonoBuffer(48000, []float32{1, 2, 3})
	out := newMonoBuffer(48000, make([]float32, 3))
	r.Process([]buffer.Reader{in}, out, 3)

	want := []float32{1, 2, 3}
	for i, v := range want {
		if out.ReadChannel(0)[i] != v {
			t.Fatalf("frame %d = %v, want %v", i, out.ReadChannel(0)[i], v)
		}
	}

	if _, ok := queue.Receive(); ok {
		t.Fatalf("expected no notifications while not recording")
	}
}

func TestRecorderFlushesPartialBufferOnStop(t *testing.T) {
	t.Parallel()

	queue := transport.NewNotificationQueue(8, nil)
	r := NewRecorder(48000, 1, queue)

	r.Start()
	started, ok := queue.Receive()
	if !ok || started.Kind != transport.RecorderStarted {
		t.Fatalf("expected RecorderStarted notification")
	}

	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = float32(i)
	}
	in := newMonoBuffer(48000, samples)
	out := newMonoBuffer(48000, make([]float32, len(samples)))
	r.Process([]buffer.Reader{in}, out, len(samples))

	r.Stop()

	var full, stopped bool
	var capturedFrames int
	for {
		n, ok := queue.Receive()
		if !ok {
			break
		}
		switch n.Kind {
		case transport.RecorderBufferFull:
			full = true
			capturedFrames = n.Buffer.Frames()
		case transport.RecorderStopped:
			stopped = true
		}
	}
	if !full {
		t.Fatalf("expected a RecorderBufferFull notification on Stop")
	}
	if !stopped {
		t.Fatalf("expected a RecorderStopped notification")
	}
	if capturedFrames != 100 {
		t.Fatalf("captured buffer has %d frames, want 100", capturedFrames)
	}
}

func TestRecorderFillsFullCaptureBuffersAutomatically(t *testing.T) {
	t.Parallel()

	queue := transport.NewNotificationQueue(8, nil)
	r := NewRecorder(48000, 1, queue)

	r.Start()
	queue.Receive() // drain RecorderStarted

	samples := make([]float32, recorderCaptureFrames)
	in := newMonoBuffer(48000, samples)
	out := newMonoBuffer(48000, make([]float32, len(samples)))
	r.Process([]buffer.Reader{in}, out, len(samples))

	n, ok := queue.Receive()
	if !ok || n.Kind != transport.RecorderBufferFull {
		t.Fatalf("expected a RecorderBufferFull notification once the capture buffer filled exactly")
	}
	if n.Buffer.Frames() != recorderCaptureFrames {
		t.Fatalf("captured buffer has %d frames, want %d", n.Buffer.Frames(), recorderCaptureFrames)
	}
}
