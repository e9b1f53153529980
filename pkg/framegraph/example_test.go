package framegraph_test

import (
	"fmt"

	"github.com/gpukit/framegraph/pkg/framegraph"
	"github.com/gpukit/framegraph/pkg/gpu"
)

// Example declares a small deferred-shading frame, builds it, and runs it
// on a null device.
func Example() {
	type texture struct{ label string }

	resources := framegraph.NewRegistry()
	gbuffer := framegraph.Insert(resources, texture{label: "gbuffer"})
	hdr := framegraph.Insert(resources, texture{label: "hdr"})

	pass := func(name string) framegraph.Pass {
		return framegraph.PassFunc(name, func(ctx *framegraph.PassContext) gpu.CommandBatch {
			return ctx.Encoder(name).Finish()
		})
	}

	g := framegraph.New()
	g.AddPass(framegraph.NewPass("geometry").
		Write(gbuffer).
		WithPass(pass("geometry")))
	g.AddPass(framegraph.NewPass("lighting").
		Read(gbuffer).
		Write(hdr).
		WithPass(pass("lighting")))
	g.AddPass(framegraph.NewPass("tonemap").
		Read(hdr).
		WithPass(pass("tonemap")))

	exec, err := g.Build()
	if err != nil {
		fmt.Println("build failed:", err)
		return
	}

	queue := gpu.NewNullQueue()
	exec.Execute(gpu.NewNullDevice(), queue, resources)

	for _, idx := range exec.ExecutionOrder() {
		fmt.Println(exec.Passes()[idx].Name())
	}
	fmt.Println("submissions:", queue.SubmitCount())

	// Output:
	// geometry
	// lighting
	// tonemap
	// submissions: 1
}

// ExampleFrameGraph_Build_cycle shows how a mutually dependent pair of
// passes is rejected.
func ExampleFrameGraph_Build_cycle() {
	ping := framegraph.Ref(framegraph.NextHandleID())
	pong := framegraph.Ref(framegraph.NextHandleID())

	pass := func(name string) framegraph.Pass {
		return framegraph.PassFunc(name, func(ctx *framegraph.PassContext) gpu.CommandBatch {
			return ctx.Encoder(name).Finish()
		})
	}

	g := framegraph.New()
	g.AddPass(framegraph.NewPass("ping").
		Read(pong).Write(ping).
		WithPass(pass("ping")))
	g.AddPass(framegraph.NewPass("pong").
		Read(ping).Write(pong).
		WithPass(pass("pong")))

	_, err := g.Build()
	fmt.Println(err)

	// Output:
	// circular dependency between passes: ping, pong
}
