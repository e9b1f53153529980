package framegraph

import (
	"slices"

	"github.com/gpukit/framegraph/pkg/gpu"
)

// Pass is a unit of work declared on a frame graph. Implementations
// record their commands into an encoder obtained from the context and
// return the finished batch; the executor submits all batches together.
//
// Execute is expected not to fail: a missing resource or a broken
// recording scope is a caller contract violation with no recovery path
// mid-schedule, and should abort via panic.
type Pass interface {
	Name() string
	Execute(ctx *PassContext) gpu.CommandBatch
}

// PassContext gives an executing pass read access to the device, the
// submission queue, and the resource registry. The registry is never
// mutated during execution.
type PassContext struct {
	Device    gpu.Device
	Queue     gpu.Queue
	Resources *Registry
}

// Encoder opens a new command-recording scope on the device.
func (c *PassContext) Encoder(label string) gpu.CommandEncoder {
	return c.Device.CreateCommandEncoder(label)
}

// PassFunc adapts a plain function to the Pass interface.
func PassFunc(name string, fn func(ctx *PassContext) gpu.CommandBatch) Pass {
	return &funcPass{name: name, fn: fn}
}

type funcPass struct {
	name string
	fn   func(ctx *PassContext) gpu.CommandBatch
}

func (p *funcPass) Name() string                              { return p.name }
func (p *funcPass) Execute(ctx *PassContext) gpu.CommandBatch { return p.fn(ctx) }

// ResourceAccess is one declared access of a pass.
type ResourceAccess struct {
	Resource HandleID
	State    ResourceState
}

// PassBuilder accumulates a pass declaration: a name, the declared read
// and write sets, and the executable body. Declaration methods return the
// builder for chaining; [FrameGraph.AddPass] finalizes it.
type PassBuilder struct {
	name   string
	reads  []ResourceAccess
	writes []ResourceAccess
	pass   Pass
}

// NewPass starts a pass declaration with the given name.
func NewPass(name string) *PassBuilder {
	return &PassBuilder{name: name}
}

// Read declares that the pass reads the resource.
func (b *PassBuilder) Read(h Referent) *PassBuilder {
	b.reads = append(b.reads, ResourceAccess{Resource: h.ID(), State: StateRead})
	return b
}

// Write declares that the pass writes the resource.
func (b *PassBuilder) Write(h Referent) *PassBuilder {
	b.writes = append(b.writes, ResourceAccess{Resource: h.ID(), State: StateWrite})
	return b
}

// ReadWrite declares that the pass both reads and writes the resource.
// It is shorthand for Read followed by Write on the same handle.
func (b *PassBuilder) ReadWrite(h Referent) *PassBuilder {
	b.reads = append(b.reads, ResourceAccess{Resource: h.ID(), State: StateRead})
	b.writes = append(b.writes, ResourceAccess{Resource: h.ID(), State: StateReadWrite})
	return b
}

// WithPass supplies the executable body. Every declaration must carry
// one before it is added to a graph.
func (b *PassBuilder) WithPass(p Pass) *PassBuilder {
	b.pass = p
	return b
}

// build finalizes the declaration into an immutable node.
// Panics if no executable body was supplied: a declared pass without a
// body is a programming error, not a runtime condition.
func (b *PassBuilder) build() *PassNode {
	if b.pass == nil {
		panic("framegraph: pass " + b.name + " declared without an executable body")
	}
	node := &PassNode{
		name:   b.name,
		reads:  make(map[HandleID]struct{}, len(b.reads)),
		writes: make(map[HandleID]struct{}, len(b.writes)),
		pass:   b.pass,
	}
	for _, a := range b.reads {
		node.reads[a.Resource] = struct{}{}
	}
	for _, a := range b.writes {
		node.writes[a.Resource] = struct{}{}
	}
	return node
}

// PassNode is a finalized pass declaration held by a graph. Reads and
// writes are deduplicated ID sets; a resource appears in both when the
// pass was declared ReadWrite.
type PassNode struct {
	name   string
	reads  map[HandleID]struct{}
	writes map[HandleID]struct{}
	pass   Pass
}

// Name returns the declared pass name.
func (n *PassNode) Name() string { return n.name }

// Reads returns the declared read set, sorted by ID.
func (n *PassNode) Reads() []HandleID { return sortedIDs(n.reads) }

// Writes returns the declared write set, sorted by ID.
func (n *PassNode) Writes() []HandleID { return sortedIDs(n.writes) }

// Pass returns the executable body.
func (n *PassNode) Pass() Pass { return n.pass }

func (n *PassNode) readsID(id HandleID) bool {
	_, ok := n.reads[id]
	return ok
}

func (n *PassNode) writesID(id HandleID) bool {
	_, ok := n.writes[id]
	return ok
}

func sortedIDs(set map[HandleID]struct{}) []HandleID {
	ids := make([]HandleID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
