// Package framegraph schedules per-frame GPU work from declared data
// dependencies.
//
// Callers register resources, declare passes with their read and write
// sets, and let the graph derive a correct execution order instead of
// sequencing passes by hand. A build either produces an executable graph
// or rejects the declaration set with a [CycleError]; execution records
// every pass in schedule order and submits the recorded batches as one
// ordered submission.
//
// # Declaring a frame
//
//	resources := framegraph.NewRegistry()
//	depth := framegraph.Insert(resources, depthTexture)
//	color := framegraph.Insert(resources, colorTexture)
//
//	fg := framegraph.New()
//	fg.RegisterResource(depth).RegisterResource(color)
//	fg.AddPass(framegraph.NewPass("shadow").
//		Write(depth).
//		WithPass(shadowPass))
//	fg.AddPass(framegraph.NewPass("forward").
//		Read(depth).
//		Write(color).
//		WithPass(forwardPass))
//
//	exec, err := fg.Build()
//	if err != nil {
//		// the declarations contain a dependency cycle
//	}
//	exec.Execute(device, queue, resources)
//
// # Ordering
//
// Two passes conflict when one writes a resource the other touches.
// Conflicts are directed into dependency edges (producers run before
// consumers; concurrent writers keep declaration order) and the schedule
// is a deterministic topological order over those edges. See
// [FrameGraph.Build] for the exact rules.
//
// # Concurrency
//
// A FrameGraph and its Registry belong to a single goroutine for the
// duration of a frame. Independent graphs over independent registries are
// safe to drive concurrently: the only shared state is the process-wide
// handle ID counter, which is atomic.
package framegraph
