package gpu

// NullDevice is a Device that records nothing. It is used when a frame
// graph is planned or simulated without GPU hardware, and in tests.
type NullDevice struct{}

// NewNullDevice creates a null device.
func NewNullDevice() *NullDevice { return &NullDevice{} }

// CreateCommandEncoder returns an encoder whose batch carries only the label.
func (*NullDevice) CreateCommandEncoder(label string) CommandEncoder {
	return &nullEncoder{label: label}
}

// nullEncoder produces a NullBatch naming the recording scope.
type nullEncoder struct {
	label    string
	finished bool
}

func (e *nullEncoder) Finish() CommandBatch {
	if e.finished {
		panic("gpu: command encoder finished twice")
	}
	e.finished = true
	return NullBatch{Label: e.label}
}

// NullBatch is the batch type produced by NullDevice encoders.
// The label identifies which recording scope produced it.
type NullBatch struct {
	Label string
}

// NullQueue retains every submission instead of executing it, so callers
// can inspect what was submitted and in which order. Not safe for
// concurrent use without external synchronization.
type NullQueue struct {
	submissions [][]CommandBatch
}

// NewNullQueue creates an empty recording queue.
func NewNullQueue() *NullQueue { return &NullQueue{} }

// Submit records the batches as one submission.
func (q *NullQueue) Submit(batches ...CommandBatch) {
	recorded := make([]CommandBatch, len(batches))
	copy(recorded, batches)
	q.submissions = append(q.submissions, recorded)
}

// SubmitCount returns how many Submit calls the queue has received.
func (q *NullQueue) SubmitCount() int { return len(q.submissions) }

// Submission returns the batches of the i-th Submit call.
func (q *NullQueue) Submission(i int) []CommandBatch { return q.submissions[i] }

// Reset discards all recorded submissions.
func (q *NullQueue) Reset() { q.submissions = nil }

var (
	_ Device = (*NullDevice)(nil)
	_ Queue  = (*NullQueue)(nil)
)
