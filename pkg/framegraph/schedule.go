package framegraph

import "slices"

// Edge is a directed ordering constraint between two passes: the pass at
// declaration index From must execute before the pass at index To.
type Edge struct {
	From int
	To   int
}

// buildEdges derives the dependency edges from hazard analysis of the
// declared read/write sets. Each resource's access sequence is walked in
// declaration order and contributes three kinds of constraint:
//
//   - read-after-write: a reader depends on the most recent writer
//     declared before it;
//   - write-after-read: readers of the current value run before the next
//     writer overwrites it;
//   - write-after-write: writers of the same resource keep declaration
//     order.
//
// Readers declared before any writer of a resource consume the first
// writer's output and are ordered after it; a resource nobody writes
// constrains nothing. Resources are visited in ascending ID order and
// duplicate edges are dropped, so the edge list is deterministic for a
// fixed declaration sequence.
func buildEdges(passes []*PassNode) []Edge {
	ids := make(map[HandleID]struct{})
	for _, p := range passes {
		for id := range p.reads {
			ids[id] = struct{}{}
		}
		for id := range p.writes {
			ids[id] = struct{}{}
		}
	}
	sorted := make([]HandleID, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)

	var edges []Edge
	seen := make(map[Edge]struct{})
	add := func(from, to int) {
		if from == to {
			return
		}
		e := Edge{From: from, To: to}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}

	for _, id := range sorted {
		resourceEdges(passes, id, add)
	}
	return edges
}

// resourceEdges emits the hazard edges contributed by one resource.
//
// lastWriter tracks the most recent writer; readers accumulates the
// passes reading its value so the next writer is ordered after them.
// Readers seen before the first writer are held back: once the first
// writer appears they depend on it, and from then on they count as
// readers of its output. A pass that both reads and writes the resource
// reads the previous value and becomes the new writer; self edges are
// skipped.
func resourceEdges(passes []*PassNode, id HandleID, add func(from, to int)) {
	lastWriter := -1
	var readers []int    // readers since the last write
	var preReaders []int // readers before the first write

	for i, p := range passes {
		reads := p.readsID(id)
		writes := p.writesID(id)

		if reads {
			if lastWriter >= 0 {
				add(lastWriter, i)
				readers = append(readers, i)
			} else if !writes {
				preReaders = append(preReaders, i)
			}
		}
		if writes {
			if lastWriter >= 0 {
				add(lastWriter, i)
				for _, r := range readers {
					add(r, i)
				}
				readers = nil
			} else {
				for _, r := range preReaders {
					add(i, r)
				}
				readers = slices.Clone(preReaders)
				preReaders = nil
			}
			lastWriter = i
		}
	}
}

// topologicalSort orders the passes consistently with the edges using
// Kahn's algorithm. The ready queue is seeded and drained in increasing
// declaration index, so the schedule is deterministic for a fixed
// declaration sequence and unconflicted passes keep declaration order.
//
// Returns a *CycleError naming the unscheduled passes when the edges
// contain a cycle; no partial order is ever returned.
func topologicalSort(passes []*PassNode, edges []Edge) ([]int, error) {
	n := len(passes)
	inDegree := make([]int, n)
	successors := make([][]int, n)
	for _, e := range edges {
		successors[e.From] = append(successors[e.From], e.To)
		inDegree[e.To]++
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)

		for _, v := range successors[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(order) != n {
		scheduled := make(map[int]bool, len(order))
		for _, idx := range order {
			scheduled[idx] = true
		}
		var stuck []string
		for i, p := range passes {
			if !scheduled[i] {
				stuck = append(stuck, p.Name())
			}
		}
		return nil, &CycleError{Passes: stuck}
	}

	return order, nil
}
