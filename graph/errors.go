// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	// ErrUnknownNode is returned when an operation names a node id the
	// graph has no entry for.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrUnknownEdge is returned when an operation names an edge id the
	// graph has no entry for.
	ErrUnknownEdge = errors.New("graph: unknown edge")

	// ErrDuplicateNode is returned by AddNode when the node's id is
	// already present.
	ErrDuplicateNode = errors.New("graph: duplicate node id")

	// ErrCycleDetected is returned by TopologicalOrder when the graph's
	// edges form a cycle, which would make a schedule impossible.
	ErrCycleDetected = errors.New("graph: cycle detected")
)
