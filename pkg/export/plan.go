package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/gpukit/framegraph/pkg/framegraph"
)

// Plan is the portable form of a built frame graph.
// Pass and resource ordering is deterministic, so two builds of the same
// declarations marshal to byte-identical payloads modulo ID and timestamp.
type Plan struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Passes    []PassPlan     `json:"passes" bson:"passes"`
	Edges     []EdgePlan     `json:"edges" bson:"edges"`
	Order     []int          `json:"order" bson:"order"`
	Resources []ResourcePlan `json:"resources" bson:"resources"`
	Surfaces  int            `json:"surfaces" bson:"surfaces"`
}

// PassPlan is one declared pass with its access sets.
type PassPlan struct {
	Name   string   `json:"name" bson:"name"`
	Reads  []uint64 `json:"reads" bson:"reads"`
	Writes []uint64 `json:"writes" bson:"writes"`
}

// EdgePlan is a derived ordering constraint between declaration indices.
type EdgePlan struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`
}

// ResourcePlan is the lifetime record of one resource.
type ResourcePlan struct {
	ID        uint64 `json:"id" bson:"id"`
	State     string `json:"state" bson:"state"`
	Used      bool   `json:"used" bson:"used"`
	FirstPass int    `json:"first_pass,omitempty" bson:"first_pass,omitempty"`
	LastPass  int    `json:"last_pass,omitempty" bson:"last_pass,omitempty"`
}

// FromGraph snapshots an executable frame graph into a Plan with a fresh
// UUID and the current time.
func FromGraph(g *framegraph.ExecutableFrameGraph) *Plan {
	plan := &Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Order:     g.ExecutionOrder(),
		Surfaces:  g.SurfaceCount(),
	}

	for _, node := range g.Passes() {
		pp := PassPlan{Name: node.Name()}
		for _, id := range node.Reads() {
			pp.Reads = append(pp.Reads, uint64(id))
		}
		for _, id := range node.Writes() {
			pp.Writes = append(pp.Writes, uint64(id))
		}
		plan.Passes = append(plan.Passes, pp)
	}

	for _, e := range g.Edges() {
		plan.Edges = append(plan.Edges, EdgePlan{From: e.From, To: e.To})
	}

	for _, id := range g.ResourceIDs() {
		info, _ := g.ResourceInfo(id)
		rp := ResourcePlan{
			ID:    uint64(id),
			State: info.State.String(),
			Used:  info.Used(),
		}
		if info.Used() {
			rp.FirstPass = info.FirstUsedPass
			rp.LastPass = info.LastUsedPass
		}
		plan.Resources = append(plan.Resources, rp)
	}

	return plan
}

// MarshalPlan converts a plan to indented JSON bytes.
func MarshalPlan(p *Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePlan(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePlan writes a plan as JSON to an io.Writer.
func WritePlan(p *Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePlanFile writes a plan to a JSON file.
// The file is created with 0644 permissions.
func WritePlanFile(p *Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePlan(p, f)
}

// ReadPlan decodes a JSON plan from an io.Reader.
func ReadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &p, nil
}

// ReadPlanFile reads a JSON file and returns the decoded plan.
func ReadPlanFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPlan(f)
}

// MarshalPlanBSON converts a plan to BSON for archive storage.
func MarshalPlanBSON(p *Plan) ([]byte, error) {
	data, err := bson.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("bson encode: %w", err)
	}
	return data, nil
}

// UnmarshalPlanBSON decodes a BSON plan document.
func UnmarshalPlanBSON(data []byte) (*Plan, error) {
	var p Plan
	if err := bson.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("bson decode: %w", err)
	}
	return &p, nil
}
