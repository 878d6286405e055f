// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

// errPoolExhausted is returned by Scheduler.ProcessBlock when the buffer
// pool has no free buffer left for a node's output; the block's remaining
// nodes are skipped. Engine.Process returns it to its caller unwrapped.
// The exhaustion itself is reported to the PoolObserver by
// BufferPool.Acquire.
var errPoolExhausted = errors.New("engine: buffer pool exhausted")
