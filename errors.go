package flowgraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph operations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrStructure indicates a violation of the graph's structural
	// invariants: connecting a destination that already has an incoming
	// edge, introducing a cycle, disconnecting an attribute with no
	// incoming edge, directly assigning a connected attribute, or
	// referring to an unknown node, attribute, or node type.
	//
	// Example:
	//	_, err := g.AddEdge(src, dst)
	//	if errors.Is(err, flowgraph.ErrStructure) {
	//	    log.Printf("rejected: %v", err)
	//	}
	ErrStructure = errors.New("graph structure violation")

	// ErrHook indicates that a change hook failed during a cascade.
	// Propagation is fail-fast: the error aborts the remainder of the
	// cascade and surfaces to the caller of the originating live mutation.
	// The graph may be left with a partially-applied cascade; callers
	// needing atomicity must snapshot and restore externally.
	ErrHook = errors.New("change hook failed")

	// ErrPersistence indicates a malformed or inconsistent graph document,
	// such as an edge referencing a missing node or attribute. Load never
	// returns a partial graph alongside this error.
	ErrPersistence = errors.New("invalid graph document")
)

// HookError reports a change hook failure during a cascade. It records the
// attribute whose hook failed and wraps the hook's own error. HookError
// matches ErrHook under errors.Is.
type HookError struct {
	// Node is the name of the node owning the failing hook.
	Node string

	// Attr is the name of the attribute the hook is bound to.
	Attr string

	// Err is the error returned by the hook.
	Err error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("change hook for %s.%s: %v", e.Node, e.Attr, e.Err)
}

// Unwrap returns the hook's underlying error.
func (e *HookError) Unwrap() error { return e.Err }

// Is reports whether target is ErrHook, so that errors.Is(err, ErrHook)
// matches any HookError regardless of its cause.
func (e *HookError) Is(target error) bool { return target == ErrHook }

// structuref wraps a formatted message with ErrStructure.
func structuref(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}

// persistf wraps a formatted message with ErrPersistence.
func persistf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPersistence, fmt.Sprintf(format, args...))
}
