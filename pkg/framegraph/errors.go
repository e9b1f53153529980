package framegraph

import (
	"errors"
	"strings"
)

// ErrCircularDependency is returned by [FrameGraph.Build] when the
// declared passes contain a dependency cycle. Use [errors.Is] to match
// it; the concrete error is a [*CycleError] naming the offending passes.
var ErrCircularDependency = errors.New("circular dependency between passes")

// CycleError reports a rejected build. Passes holds the names of the
// passes that could not be scheduled, in declaration order; every cycle
// in the graph runs through this set, though not every listed pass is
// necessarily on a cycle (downstream passes blocked by one are included).
type CycleError struct {
	Passes []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "circular dependency between passes: " + strings.Join(e.Passes, ", ")
}

// Unwrap makes the error match ErrCircularDependency under errors.Is.
func (e *CycleError) Unwrap() error { return ErrCircularDependency }
