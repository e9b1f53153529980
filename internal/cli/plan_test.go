package cli

import (
	"strings"
	"testing"

	"github.com/gpukit/framegraph/pkg/export"
	"github.com/gpukit/framegraph/pkg/framegraph"
)

// Display names must resolve from the plan alone. A cached plan carries
// handle IDs allocated by another process, so the map cannot depend on
// the IDs this process happens to allocate.
func TestDisplayNamesIgnoreLiveHandleIDs(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	plan := &export.Plan{
		Passes: []export.PassPlan{
			{Name: "geometry", Writes: []uint64{4101}},
			{Name: "lighting", Reads: []uint64{4101}, Writes: []uint64{4102}},
		},
		Resources: []export.ResourcePlan{
			{ID: 4101, State: "Write", Used: true},
			{ID: 4102, State: "Write", Used: true},
		},
	}

	names := displayNames(plan, m)
	if got := names[framegraph.HandleID(4101)]; got != "gbuffer" {
		t.Errorf("names[4101] = %q, want %q", got, "gbuffer")
	}
	if got := names[framegraph.HandleID(4102)]; got != "hdr" {
		t.Errorf("names[4102] = %q, want %q", got, "hdr")
	}

	if got := fmtNames(plan.Passes[1].Reads, names); got != "gbuffer" {
		t.Errorf("fmtNames = %q, want %q", got, "gbuffer")
	}
}

func TestDisplayNamesMatchFreshBuild(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	// Burn a declaration so the plan's handle IDs differ from the ones a
	// later Declare would allocate.
	g, _, err := m.Declare()
	if err != nil {
		t.Fatalf("Declare error: %v", err)
	}
	exec, err := g.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	plan := export.FromGraph(exec)
	if _, _, err := m.Declare(); err != nil {
		t.Fatalf("second Declare error: %v", err)
	}

	names := displayNames(plan, m)
	if len(names) != 2 {
		t.Fatalf("len(names) = %d, want 2", len(names))
	}
	for _, res := range plan.Resources {
		if names[framegraph.HandleID(res.ID)] == "" {
			t.Errorf("resource %d has no display name", res.ID)
		}
	}
}
