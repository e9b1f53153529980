package cli

import (
	"strings"
	"testing"

	apperrors "github.com/gpukit/framegraph/pkg/errors"
)

const deferredManifest = `
name = "deferred"
surfaces = 1

[[resources]]
name = "gbuffer"

[[resources]]
name = "hdr"

[[passes]]
name = "geometry"
writes = ["gbuffer"]

[[passes]]
name = "lighting"
reads = ["gbuffer"]
writes = ["hdr"]

[[passes]]
name = "tonemap"
readwrites = ["hdr"]
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	if m.Name != "deferred" {
		t.Errorf("Name = %q, want %q", m.Name, "deferred")
	}
	if m.Surfaces != 1 {
		t.Errorf("Surfaces = %d, want 1", m.Surfaces)
	}
	if len(m.Resources) != 2 || len(m.Passes) != 3 {
		t.Fatalf("got %d resources, %d passes; want 2, 3", len(m.Resources), len(m.Passes))
	}
	if got := m.Passes[1].Reads; len(got) != 1 || got[0] != "gbuffer" {
		t.Errorf("lighting reads %v, want [gbuffer]", got)
	}
	if got := m.Passes[2].ReadWrites; len(got) != 1 || got[0] != "hdr" {
		t.Errorf("tonemap readwrites %v, want [hdr]", got)
	}
}

func TestParseManifestRejectsUnknownResource(t *testing.T) {
	const bad = `
[[passes]]
name = "lighting"
reads = ["gbuffer"]
`
	_, err := ParseManifest(strings.NewReader(bad))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}

func TestParseManifestRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "duplicate resource",
			input: `
[[resources]]
name = "x"
[[resources]]
name = "x"
`,
		},
		{
			name: "duplicate pass",
			input: `
[[resources]]
name = "x"
[[passes]]
name = "p"
writes = ["x"]
[[passes]]
name = "p"
reads = ["x"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest(strings.NewReader(tt.input))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidManifest) {
				t.Errorf("error = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}

func TestParseManifestRejectsBadTOML(t *testing.T) {
	_, err := ParseManifest(strings.NewReader("not toml ["))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidManifest) {
		t.Errorf("error = %v, want INVALID_MANIFEST", err)
	}
}

func TestManifestDeclare(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(deferredManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	g, names, err := m.Declare()
	if err != nil {
		t.Fatalf("Declare error: %v", err)
	}
	if g.PassCount() != 3 {
		t.Errorf("PassCount() = %d, want 3", g.PassCount())
	}
	if len(names) != 2 {
		t.Errorf("len(names) = %d, want 2", len(names))
	}

	exec, err := g.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	order := exec.ExecutionOrder()
	if len(order) != 3 {
		t.Fatalf("len(order) = %d, want 3", len(order))
	}
	// geometry must run before lighting, lighting before tonemap.
	pos := make(map[string]int)
	for slot, idx := range order {
		pos[exec.Passes()[idx].Name()] = slot
	}
	if pos["geometry"] > pos["lighting"] || pos["lighting"] > pos["tonemap"] {
		t.Errorf("schedule violates dependencies: %v", pos)
	}
	if exec.SurfaceCount() != 1 {
		t.Errorf("SurfaceCount() = %d, want 1", exec.SurfaceCount())
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(t.TempDir() + "/missing.toml")
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
