package gpu

import "testing"

func TestNullDeviceEncoderCarriesLabel(t *testing.T) {
	device := NewNullDevice()

	batch := device.CreateCommandEncoder("shadow").Finish()
	nb, ok := batch.(NullBatch)
	if !ok {
		t.Fatalf("Finish() = %T, want NullBatch", batch)
	}
	if nb.Label != "shadow" {
		t.Errorf("Label = %q, want %q", nb.Label, "shadow")
	}
}

func TestNullEncoderDoubleFinishPanics(t *testing.T) {
	enc := NewNullDevice().CreateCommandEncoder("once")
	enc.Finish()

	defer func() {
		if recover() == nil {
			t.Error("finishing an encoder twice should panic")
		}
	}()
	enc.Finish()
}

func TestNullQueueRecordsSubmissions(t *testing.T) {
	q := NewNullQueue()

	if got := q.SubmitCount(); got != 0 {
		t.Fatalf("SubmitCount() = %d, want 0", got)
	}

	q.Submit(NullBatch{Label: "a"}, NullBatch{Label: "b"})
	q.Submit(NullBatch{Label: "c"})

	if got := q.SubmitCount(); got != 2 {
		t.Fatalf("SubmitCount() = %d, want 2", got)
	}
	if got := len(q.Submission(0)); got != 2 {
		t.Errorf("len(Submission(0)) = %d, want 2", got)
	}
	if got := q.Submission(1)[0].(NullBatch).Label; got != "c" {
		t.Errorf("Submission(1)[0].Label = %q, want %q", got, "c")
	}
}

func TestNullQueueSubmitCopiesBatches(t *testing.T) {
	q := NewNullQueue()

	batches := []CommandBatch{NullBatch{Label: "orig"}}
	q.Submit(batches...)
	batches[0] = NullBatch{Label: "mutated"}

	if got := q.Submission(0)[0].(NullBatch).Label; got != "orig" {
		t.Errorf("recorded label = %q, want %q", got, "orig")
	}
}

func TestNullQueueReset(t *testing.T) {
	q := NewNullQueue()
	q.Submit(NullBatch{Label: "x"})
	q.Reset()

	if got := q.SubmitCount(); got != 0 {
		t.Errorf("SubmitCount() after Reset = %d, want 0", got)
	}
}
