// Package gpu defines the device-side contracts the frame-graph scheduler
// records against and submits to.
//
// The scheduler never creates a GPU device of its own: it RECEIVES a
// [Device] and a [Queue] from the host application and only uses them to
// open command-recording scopes and to hand over recorded work. This keeps
// the scheduler independent of any particular GPU backend:
//   - [NullDevice] / [NullQueue] record nothing and are used for planning,
//     simulation, and tests.
//   - [WebGPUDevice] / [WebGPUQueue] adapt a cogentcore/webgpu device.
//
// Ordering is the only guarantee a Queue implementation must provide:
// batches passed to a single Submit call execute in slice order.
package gpu

// CommandBatch is the opaque result of recording one pass's commands.
// The scheduler collects one batch per pass and submits them together;
// it never inspects batch contents.
type CommandBatch interface{}

// CommandEncoder records the commands of a single pass and finalizes
// them into a batch. A finished encoder must not be reused.
type CommandEncoder interface {
	// Finish closes the recording scope and returns the recorded batch.
	Finish() CommandBatch
}

// Device opens command-recording scopes for passes.
type Device interface {
	// CreateCommandEncoder opens a new recording scope. The label is a
	// debug name, typically the pass name.
	CreateCommandEncoder(label string) CommandEncoder
}

// Queue accepts recorded batches for submission.
//
// Implementations must preserve the order of batches within a single
// Submit call: batch i executes before batch i+1. No guarantee is made
// about ordering relative to submissions from prior frames beyond what
// the underlying queue provides.
type Queue interface {
	Submit(batches ...CommandBatch)
}
