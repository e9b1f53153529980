package framegraph

import "math"

// ResourceState classifies how a resource is accessed.
type ResourceState int

const (
	// StateUndefined means the resource has not been touched yet.
	StateUndefined ResourceState = iota
	// StateRead means the resource has only been read.
	StateRead
	// StateWrite means the resource has only been written.
	StateWrite
	// StateReadWrite means the resource has been both read and written.
	StateReadWrite
)

// String returns the state name.
func (s ResourceState) String() string {
	switch s {
	case StateRead:
		return "Read"
	case StateWrite:
		return "Write"
	case StateReadWrite:
		return "ReadWrite"
	default:
		return "Undefined"
	}
}

// Merge combines two access states. Undefined is the identity; equal
// states are idempotent; any mix of reading and writing is ReadWrite.
func (s ResourceState) Merge(other ResourceState) ResourceState {
	switch {
	case s == StateUndefined:
		return other
	case other == StateUndefined:
		return s
	case s == other:
		return s
	default:
		return StateReadWrite
	}
}

// ResourceInfo is the per-resource metadata a graph accumulates while
// passes are declared and finalizes during Build.
//
// FirstUsedPass and LastUsedPass are positions in the final execution
// order, not declaration indices. They give the tightest live window of
// the resource within the schedule, which is the groundwork for future
// allocation reuse; the executor does not consume them yet.
type ResourceInfo struct {
	// State is the merged access state over all declaring passes.
	State ResourceState
	// FirstUsedPass is the earliest schedule position touching the
	// resource. math.MaxInt until a pass touches it.
	FirstUsedPass int
	// LastUsedPass is the latest schedule position touching the resource.
	LastUsedPass int
}

// NewResourceInfo returns the metadata of an untouched resource.
func NewResourceInfo() ResourceInfo {
	return ResourceInfo{
		State:         StateUndefined,
		FirstUsedPass: math.MaxInt,
		LastUsedPass:  0,
	}
}

// Used reports whether at least one scheduled pass touches the resource.
func (i ResourceInfo) Used() bool {
	return i.FirstUsedPass != math.MaxInt
}

// touch narrows the live window to include the given schedule position.
func (i *ResourceInfo) touch(position int) {
	i.FirstUsedPass = min(i.FirstUsedPass, position)
	i.LastUsedPass = max(i.LastUsedPass, position)
}
