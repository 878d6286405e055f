// SPDX-License-Identifier: EPL-2.0

// Package ids hands out the process-wide monotonic identifiers used to
// name nodes, parameters and edges throughout the engine.
package ids

import "sync/atomic"

// ID is an opaque, never-reused handle. The zero value is never issued by
// Next and is reserved as a caller-visible "no id" sentinel.
type ID uint64

var counter atomic.Uint64

// Next returns a fresh ID, safe to call concurrently from any thread.
func Next() ID {
	return ID(counter.Add(1))
}

// IsZero reports whether id is the reserved "no id" sentinel.
func (id ID) IsZero() bool { return id == 0 }
