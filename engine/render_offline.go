// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audiograph/buffer"

// RenderOffline drives e through totalFrames frames, one MaxFrameCount
// block at a time, and returns the accumulated output. It is meant for
// tests, batch rendering and bouncing a graph to a file, not for the
// realtime path: e must already have been started (e.Start()) and have
// whatever nodes and connections it needs in place before this runs.
func RenderOffline(e *Engine, totalFrames int) (*buffer.Owned, error) {
	out := buffer.NewOwned(e.opts.MaxChannelCount, totalFrames, e.opts.SampleRate)

	blockFrames := e.opts.MaxFrameCount
	for offset := 0; offset < totalFrames; offset += blockFrames {
		n := blockFrames
		if offset+n > totalFrames {
			n = totalFrames - offset
		}
		view := buffer.NewMutView(out, buffer.Location{Frame: offset}, e.opts.MaxChannelCount, n)
		if err := e.Process(n, nil, view); err != nil {
			return nil, err
		}
	}

	return out, nil
}
