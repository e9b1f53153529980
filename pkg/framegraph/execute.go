package framegraph

import (
	"slices"
	"time"

	"github.com/gpukit/framegraph/pkg/gpu"
	"github.com/gpukit/framegraph/pkg/observability"
)

// ExecutableFrameGraph is a successfully built frame: the declared passes,
// a valid execution order over them, the derived dependency edges, and
// the finalized resource lifetime metadata. It is immutable after Build.
type ExecutableFrameGraph struct {
	passes    []*PassNode
	order     []int
	edges     []Edge
	resources map[HandleID]ResourceInfo
	surfaces  []uint64
}

// Passes returns the declared passes in declaration order.
func (g *ExecutableFrameGraph) Passes() []*PassNode {
	return slices.Clone(g.passes)
}

// ExecutionOrder returns the schedule as a permutation of declaration
// indices.
func (g *ExecutableFrameGraph) ExecutionOrder() []int {
	return slices.Clone(g.order)
}

// Edges returns the derived dependency edges (From executes before To,
// both declaration indices).
func (g *ExecutableFrameGraph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// ResourceInfo returns the finalized metadata of a resource and whether
// the graph knows the resource at all.
func (g *ExecutableFrameGraph) ResourceInfo(id HandleID) (ResourceInfo, bool) {
	info, ok := g.resources[id]
	return info, ok
}

// ResourceIDs returns every resource the graph knows, sorted by ID.
func (g *ExecutableFrameGraph) ResourceIDs() []HandleID {
	ids := make([]HandleID, 0, len(g.resources))
	for id := range g.resources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SurfaceCount returns the number of registered presentation surfaces.
func (g *ExecutableFrameGraph) SurfaceCount() int { return len(g.surfaces) }

// Execute runs every pass in schedule order, collects one recorded batch
// per pass, and submits all batches to the queue as a single ordered
// submission. Passes that are adjacent in the schedule but logically
// unrelated still land on one deterministic timeline.
//
// Execution is synchronous and runs on the caller's goroutine; there is
// no mechanism to abort a partially executed schedule. The registry is
// only read during execution — resource creation and destruction belong
// between frames.
func (g *ExecutableFrameGraph) Execute(device gpu.Device, queue gpu.Queue, resources *Registry) {
	ctx := &PassContext{
		Device:    device,
		Queue:     queue,
		Resources: resources,
	}

	batches := make([]gpu.CommandBatch, 0, len(g.order))
	states := make(map[HandleID]ResourceState, len(g.resources))

	for _, passIdx := range g.order {
		node := g.passes[passIdx]

		// The device layer inserts barriers from usage flags on its own;
		// transitions are tracked for validation and diagnostics only.
		for _, t := range stateTransitions(states, node) {
			observability.Frame().OnStateTransition(uint64(t.resource), t.from.String(), t.to.String())
		}

		start := time.Now()
		batches = append(batches, node.pass.Execute(ctx))
		observability.Frame().OnPassExecute(node.name, time.Since(start))

		for id := range node.reads {
			states[id] = states[id].Merge(StateRead)
		}
		for id := range node.writes {
			states[id] = states[id].Merge(StateWrite)
		}
	}

	start := time.Now()
	queue.Submit(batches...)
	observability.Frame().OnSubmit(len(batches), time.Since(start))
}

// stateTransition records a resource needing a different access state for
// the upcoming pass than the one it was left in.
type stateTransition struct {
	resource HandleID
	from, to ResourceState
}

// stateTransitions compares each resource the pass touches against its
// current runtime state. Resources still Undefined produce no transition.
func stateTransitions(current map[HandleID]ResourceState, node *PassNode) []stateTransition {
	touched := make(map[HandleID]struct{}, len(node.reads)+len(node.writes))
	for id := range node.reads {
		touched[id] = struct{}{}
	}
	for id := range node.writes {
		touched[id] = struct{}{}
	}

	var transitions []stateTransition
	for id := range touched {
		required := requiredState(node, id)
		if required == StateUndefined {
			continue
		}
		from := current[id]
		if from != StateUndefined && from != required {
			transitions = append(transitions, stateTransition{resource: id, from: from, to: required})
		}
	}
	return transitions
}

func requiredState(node *PassNode, id HandleID) ResourceState {
	reads := node.readsID(id)
	writes := node.writesID(id)
	switch {
	case reads && writes:
		return StateReadWrite
	case reads:
		return StateRead
	case writes:
		return StateWrite
	default:
		return StateUndefined
	}
}
