package framegraph

import "sync/atomic"

// HandleID is the raw identifier of a registered resource. IDs are unique
// within a process run; 0 is reserved and never allocated.
type HandleID uint64

// handleCounter backs NextHandleID. Process-wide mutable state is
// intentional here: IDs must stay unique across independently constructed
// graphs and registries.
var handleCounter atomic.Uint64

// NextHandleID returns a fresh, process-unique resource ID.
// The first ID allocated is 1 and IDs are never reused. Safe for
// concurrent callers.
func NextHandleID() HandleID {
	return HandleID(handleCounter.Add(1))
}

// Handle is a typed reference to a resource stored elsewhere (usually in
// a [Registry]). The type parameter exists only for compile-time API
// safety; at runtime a handle is just its ID. Handles are comparable and
// two handles are equal iff their IDs are equal.
//
// A handle carries no ownership: the registry owns the resource, and
// handles stay valid only as long as the registry keeps the entry.
type Handle[T any] struct {
	id HandleID
}

// NewHandle allocates a handle with a fresh process-unique ID, for
// callers that track the resource themselves instead of using a Registry.
func NewHandle[T any]() Handle[T] {
	return Handle[T]{id: NextHandleID()}
}

// ID returns the handle's raw resource ID.
func (h Handle[T]) ID() HandleID { return h.id }

// IsZero reports whether the handle references no resource.
func (h Handle[T]) IsZero() bool { return h.id == 0 }

// Referent is the type-erased view of a handle used by pass declarations,
// which must accept handles of heterogeneous resource types. Every
// [Handle] and [Ref] implements it.
type Referent interface {
	ID() HandleID
}

// Ref wraps a raw ID as a [Referent], for callers that allocate IDs with
// [NextHandleID] and keep the resources outside a Registry.
type Ref HandleID

// ID returns the wrapped resource ID.
func (r Ref) ID() HandleID { return HandleID(r) }
