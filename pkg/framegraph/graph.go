package framegraph

import (
	"slices"
	"time"

	"github.com/gpukit/framegraph/pkg/observability"
)

// FrameGraph accumulates the resource registrations and pass declarations
// of one frame. The zero value is not usable; create instances with [New].
//
// A graph is mutated only by RegisterResource, RegisterSurface, and
// AddPass, and is consumed by Build: after a successful Build the graph
// is empty and can be reused for the next frame. Not safe for concurrent
// use without external synchronization.
type FrameGraph struct {
	passes    []*PassNode
	resources map[HandleID]ResourceInfo
	surfaces  []uint64
}

// New creates an empty frame graph.
func New() *FrameGraph {
	return &FrameGraph{
		resources: make(map[HandleID]ResourceInfo),
	}
}

// RegisterResource makes the graph track lifetime metadata for the
// resource. Idempotent; registering is optional for correctness of the
// schedule (declaring a pass against an unregistered handle creates the
// entry), but explicit registration documents the frame's working set.
func (g *FrameGraph) RegisterResource(h Referent) *FrameGraph {
	if _, ok := g.resources[h.ID()]; !ok {
		g.resources[h.ID()] = NewResourceInfo()
	}
	return g
}

// RegisterSurface tracks a presentation surface for multi-surface
// rendering. Surfaces have their own lifetime rules and are kept apart
// from ordinary resources; idempotent.
func (g *FrameGraph) RegisterSurface(id uint64) *FrameGraph {
	if !slices.Contains(g.surfaces, id) {
		g.surfaces = append(g.surfaces, id)
	}
	return g
}

// AddPass finalizes the builder and appends the pass to the graph.
// Declared accesses are merged into each touched resource's state.
// Panics if the builder carries no executable body.
func (g *FrameGraph) AddPass(b *PassBuilder) *FrameGraph {
	node := b.build()

	for id := range node.reads {
		info, ok := g.resources[id]
		if !ok {
			info = NewResourceInfo()
		}
		info.State = info.State.Merge(StateRead)
		g.resources[id] = info
	}
	for id := range node.writes {
		info, ok := g.resources[id]
		if !ok {
			info = NewResourceInfo()
		}
		info.State = info.State.Merge(StateWrite)
		g.resources[id] = info
	}

	g.passes = append(g.passes, node)
	return g
}

// PassCount returns the number of declared passes.
func (g *FrameGraph) PassCount() int { return len(g.passes) }

// Build derives dependency edges from the declared read/write sets,
// computes a deterministic topological execution order, and finalizes
// per-resource lifetime windows over that order.
//
// Edge direction follows hazard analysis over each resource's access
// sequence: a reader depends on the most recent writer declared before it
// (or on the first writer when it is declared ahead of every writer),
// readers run before the next writer overwrites the value, and writers of
// the same resource keep declaration order. Pairs that mutually produce
// for each other, and longer producer chains that loop, are rejected with
// a [*CycleError] (matching [ErrCircularDependency]); no partial schedule
// is returned.
//
// Build consumes the graph: on success the receiver is reset to empty and
// the declarations move into the returned executable graph.
func (g *FrameGraph) Build() (*ExecutableFrameGraph, error) {
	start := time.Now()
	observability.Frame().OnBuildStart(len(g.passes))

	edges := buildEdges(g.passes)
	order, err := topologicalSort(g.passes, edges)
	if err != nil {
		observability.Frame().OnBuildComplete(len(g.passes), len(edges), time.Since(start), err)
		return nil, err
	}

	for position, passIdx := range order {
		node := g.passes[passIdx]
		for id := range node.reads {
			if info, ok := g.resources[id]; ok {
				info.touch(position)
				g.resources[id] = info
			}
		}
		for id := range node.writes {
			if info, ok := g.resources[id]; ok {
				info.touch(position)
				g.resources[id] = info
			}
		}
	}

	exec := &ExecutableFrameGraph{
		passes:    g.passes,
		order:     order,
		edges:     edges,
		resources: g.resources,
		surfaces:  g.surfaces,
	}

	g.passes = nil
	g.resources = make(map[HandleID]ResourceInfo)
	g.surfaces = nil

	observability.Frame().OnBuildComplete(len(exec.passes), len(edges), time.Since(start), nil)
	return exec, nil
}
