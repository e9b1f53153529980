package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// WebGPUDevice adapts a webgpu device to the Device interface.
// The host application owns the underlying device; the adapter only
// opens recording scopes on it.
type WebGPUDevice struct {
	device *wgpu.Device
}

// NewWebGPUDevice wraps an existing webgpu device.
func NewWebGPUDevice(device *wgpu.Device) *WebGPUDevice {
	return &WebGPUDevice{device: device}
}

// Raw returns the underlying webgpu device for passes that need to
// create pipelines, bind groups, or other device objects directly.
func (d *WebGPUDevice) Raw() *wgpu.Device { return d.device }

// CreateCommandEncoder opens a labeled webgpu command encoder.
// Failure to open a recording scope mid-frame has no recovery path and
// aborts.
func (d *WebGPUDevice) CreateCommandEncoder(label string) CommandEncoder {
	enc, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		panic(fmt.Sprintf("gpu: create command encoder %q: %v", label, err))
	}
	return &webgpuEncoder{encoder: enc}
}

type webgpuEncoder struct {
	encoder *wgpu.CommandEncoder
}

// Raw exposes the underlying encoder so passes can record render and
// compute passes before finishing the batch.
func (e *webgpuEncoder) Raw() *wgpu.CommandEncoder { return e.encoder }

func (e *webgpuEncoder) Finish() CommandBatch {
	buf, err := e.encoder.Finish(nil)
	if err != nil {
		panic(fmt.Sprintf("gpu: finish command encoder: %v", err))
	}
	return buf
}

// WebGPUQueue adapts a webgpu queue to the Queue interface.
type WebGPUQueue struct {
	queue *wgpu.Queue
}

// NewWebGPUQueue wraps an existing webgpu queue.
func NewWebGPUQueue(queue *wgpu.Queue) *WebGPUQueue {
	return &WebGPUQueue{queue: queue}
}

// Raw returns the underlying webgpu queue.
func (q *WebGPUQueue) Raw() *wgpu.Queue { return q.queue }

// Submit forwards the recorded command buffers to the webgpu queue in
// order. Batches that were not produced by a WebGPUDevice encoder abort:
// mixing backends within one frame graph is a caller error.
func (q *WebGPUQueue) Submit(batches ...CommandBatch) {
	buffers := make([]*wgpu.CommandBuffer, len(batches))
	for i, b := range batches {
		buf, ok := b.(*wgpu.CommandBuffer)
		if !ok {
			panic(fmt.Sprintf("gpu: batch %d is %T, not a webgpu command buffer", i, b))
		}
		buffers[i] = buf
	}
	q.queue.Submit(buffers...)
}

var (
	_ Device = (*WebGPUDevice)(nil)
	_ Queue  = (*WebGPUQueue)(nil)
)
