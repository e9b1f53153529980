package cli

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	apperrors "github.com/gpukit/framegraph/pkg/errors"
	"github.com/gpukit/framegraph/pkg/framegraph"
	"github.com/gpukit/framegraph/pkg/gpu"
)

// Manifest is the TOML description of a frame: its resources and the
// passes that touch them. Manifests are the CLI-facing declaration
// format; the library itself is declared in code.
//
// Example:
//
//	name = "deferred"
//	surfaces = 1
//
//	[[resources]]
//	name = "gbuffer"
//
//	[[passes]]
//	name = "geometry"
//	writes = ["gbuffer"]
type Manifest struct {
	Name      string         `toml:"name"`
	Surfaces  int            `toml:"surfaces"`
	Resources []ResourceDecl `toml:"resources"`
	Passes    []PassDecl     `toml:"passes"`
}

// ResourceDecl declares one named frame resource.
type ResourceDecl struct {
	Name string `toml:"name"`
}

// PassDecl declares one pass and its access sets, by resource name.
type PassDecl struct {
	Name       string   `toml:"name"`
	Reads      []string `toml:"reads"`
	Writes     []string `toml:"writes"`
	ReadWrites []string `toml:"readwrites"`
}

// LoadManifest reads and validates a TOML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open manifest %s", path)
	}
	defer f.Close()
	return ParseManifest(f)
}

// ParseManifest decodes and validates a TOML manifest from a reader.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// validate checks name validity, uniqueness, and resource references.
func (m *Manifest) validate() error {
	resources := make(map[string]bool, len(m.Resources))
	for _, r := range m.Resources {
		if err := apperrors.ValidateName(r.Name); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "resource %q", r.Name)
		}
		if resources[r.Name] {
			return apperrors.New(apperrors.ErrCodeInvalidManifest, "duplicate resource %q", r.Name)
		}
		resources[r.Name] = true
	}

	passes := make(map[string]bool, len(m.Passes))
	for _, p := range m.Passes {
		if err := apperrors.ValidateName(p.Name); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "pass %q", p.Name)
		}
		if passes[p.Name] {
			return apperrors.New(apperrors.ErrCodeInvalidManifest, "duplicate pass %q", p.Name)
		}
		passes[p.Name] = true

		for _, set := range [][]string{p.Reads, p.Writes, p.ReadWrites} {
			for _, name := range set {
				if !resources[name] {
					return apperrors.New(apperrors.ErrCodeInvalidManifest,
						"pass %q references undeclared resource %q", p.Name, name)
				}
			}
		}
	}

	if m.Surfaces < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidManifest, "surfaces must not be negative")
	}

	return nil
}

// Declare translates the manifest into a frame graph ready to build.
// Each pass records an empty command scope labeled with its name; the
// returned name map resolves resource handles back to manifest names
// for display.
func (m *Manifest) Declare() (*framegraph.FrameGraph, map[framegraph.HandleID]string, error) {
	if err := m.validate(); err != nil {
		return nil, nil, err
	}

	refs := make(map[string]framegraph.Ref, len(m.Resources))
	names := make(map[framegraph.HandleID]string, len(m.Resources))

	g := framegraph.New()
	for _, r := range m.Resources {
		ref := framegraph.Ref(framegraph.NextHandleID())
		refs[r.Name] = ref
		names[ref.ID()] = r.Name
		g.RegisterResource(ref)
	}
	for i := 0; i < m.Surfaces; i++ {
		g.RegisterSurface(uint64(i + 1))
	}

	for _, p := range m.Passes {
		b := framegraph.NewPass(p.Name)
		for _, name := range p.Reads {
			b.Read(refs[name])
		}
		for _, name := range p.Writes {
			b.Write(refs[name])
		}
		for _, name := range p.ReadWrites {
			b.ReadWrite(refs[name])
		}
		label := p.Name
		g.AddPass(b.WithPass(framegraph.PassFunc(label, func(ctx *framegraph.PassContext) gpu.CommandBatch {
			return ctx.Encoder(label).Finish()
		})))
	}

	return g, names, nil
}
