package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gpukit/framegraph/pkg/observability"
)

func TestRunFrames(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	stats := newSimStats()
	observability.SetFrameHooks(stats)
	defer observability.Reset()

	var frames []int
	err = runFrames(context.Background(), m, 5, func(n int) {
		frames = append(frames, n)
	})
	if err != nil {
		t.Fatalf("runFrames error: %v", err)
	}

	if len(frames) != 5 || frames[4] != 5 {
		t.Errorf("frame callbacks %v, want 1..5", frames)
	}

	rows, submits, batches := stats.snapshot()
	if submits != 5 {
		t.Errorf("submits = %d, want 5", submits)
	}
	if batches != 15 {
		t.Errorf("batches = %d, want 15 (3 passes × 5 frames)", batches)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.runs != 5 {
			t.Errorf("pass %q ran %d times, want 5", row.name, row.runs)
		}
	}
	// Rows come back sorted by name.
	if rows[0].name != "geometry" || rows[1].name != "lighting" || rows[2].name != "tonemap" {
		t.Errorf("rows out of order: %v, %v, %v", rows[0].name, rows[1].name, rows[2].name)
	}
}

func TestRunFramesHonorsCancellation(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runFrames(ctx, m, 100, nil); err != context.Canceled {
		t.Errorf("runFrames = %v, want context.Canceled", err)
	}
}

func TestSimStatsConcurrentSafe(t *testing.T) {
	stats := newSimStats()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			stats.OnPassExecute("gbuffer", time.Microsecond)
			stats.OnSubmit(1, time.Microsecond)
		}
	}()
	for i := 0; i < 100; i++ {
		stats.snapshot()
	}
	<-done

	rows, submits, _ := stats.snapshot()
	if len(rows) != 1 || rows[0].runs != 100 {
		t.Errorf("rows = %+v, want one pass with 100 runs", rows)
	}
	if submits != 100 {
		t.Errorf("submits = %d, want 100", submits)
	}
}
