package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gpukit/framegraph/pkg/cache"
	"github.com/gpukit/framegraph/pkg/export"
	"github.com/gpukit/framegraph/pkg/framegraph"
	"github.com/gpukit/framegraph/pkg/observability"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	output  string // output file for --json (default stdout)
	json    bool   // emit the plan as JSON instead of tables
	noCache bool   // bypass the plan cache
}

// planCommand creates the plan command. It builds the schedule for a
// manifest and prints it as tables, or as JSON with --json.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan [manifest]",
		Short: "Build and display the execution schedule for a frame manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for --json (default stdout)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "emit the plan as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the plan cache")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, path string, opts *planOpts) error {
	plan, names, cached, err := c.buildPlan(ctx, path, opts.noCache)
	if err != nil {
		return err
	}

	if opts.json {
		return writePlanJSON(plan, opts.output)
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Schedule"))
	fmt.Println(scheduleTable(plan, names))
	printNewline()
	fmt.Println(StyleTitle.Render("Resource lifetimes"))
	fmt.Println(lifetimeTable(plan, names))
	printStats(len(plan.Passes), len(plan.Edges), cached)
	return nil
}

// buildPlan loads the manifest, builds the plan (through the cache when
// possible), and returns the id→name map for display. The name map is
// derived from the plan itself, not from the live declaration, so a plan
// served from the cache resolves names even though its handle IDs came
// from another process.
func (c *CLI) buildPlan(ctx context.Context, path string, noCache bool) (*export.Plan, map[framegraph.HandleID]string, bool, error) {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, err
	}
	manifest, err := ParseManifest(bytes.NewReader(data))
	if err != nil {
		return nil, nil, false, err
	}
	logger.Debugf("Loaded manifest: %d resources, %d passes", len(manifest.Resources), len(manifest.Passes))

	g, _, err := manifest.Declare()
	if err != nil {
		return nil, nil, false, err
	}

	store, err := newCache(noCache)
	if err != nil {
		return nil, nil, false, err
	}
	defer store.Close()

	key := cache.NewDefaultKeyer().PlanKey(cache.Hash(data), cache.PlanKeyOpts{})
	if cachedData, hit, _ := store.Get(ctx, key); hit {
		observability.Cache().OnCacheHit("plan")
		if plan, err := export.ReadPlan(bytes.NewReader(cachedData)); err == nil {
			logger.Debug("Plan served from cache")
			return plan, displayNames(plan, manifest), true, nil
		}
	}
	observability.Cache().OnCacheMiss("plan")

	p := newProgress(logger)
	exec, err := g.Build()
	if err != nil {
		return nil, nil, false, err
	}
	plan := export.FromGraph(exec)
	p.done(fmt.Sprintf("Planned %d passes", len(plan.Passes)))

	if planData, err := export.MarshalPlan(plan); err == nil {
		if err := store.Set(ctx, key, planData, cache.TTLPlan); err == nil {
			observability.Cache().OnCacheSet("plan", len(planData))
		}
	}

	return plan, displayNames(plan, manifest), false, nil
}

// displayNames pairs the plan's resources with the manifest's declared
// resources by position. Declaring a manifest allocates handle IDs in
// increasing order and the plan lists resources sorted by ID, so the
// pairing holds for any plan built from this manifest, whichever process
// allocated the IDs.
func displayNames(plan *export.Plan, m *Manifest) map[framegraph.HandleID]string {
	names := make(map[framegraph.HandleID]string, len(plan.Resources))
	for i, res := range plan.Resources {
		if i < len(m.Resources) {
			names[framegraph.HandleID(res.ID)] = m.Resources[i].Name
		}
	}
	return names
}

// writePlanJSON writes the plan as JSON to a file or stdout.
func writePlanJSON(plan *export.Plan, output string) error {
	if output == "" {
		return export.WritePlan(plan, os.Stdout)
	}
	if err := export.WritePlanFile(plan, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}

// planTable returns the shared table scaffolding.
func planTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

// scheduleTable renders the execution schedule as a table, one row per
// slot in execution order.
func scheduleTable(plan *export.Plan, names map[framegraph.HandleID]string) string {
	t := planTable("Slot", "Pass", "Reads", "Writes")
	for slot, idx := range plan.Order {
		pass := plan.Passes[idx]
		t.Row(
			strconv.Itoa(slot),
			pass.Name,
			fmtNames(pass.Reads, names),
			fmtNames(pass.Writes, names),
		)
	}
	return t.Render()
}

// lifetimeTable renders resource lifetime windows as a table.
func lifetimeTable(plan *export.Plan, names map[framegraph.HandleID]string) string {
	t := planTable("Resource", "State", "First", "Last")
	for _, res := range plan.Resources {
		name := names[framegraph.HandleID(res.ID)]
		if name == "" {
			name = "#" + strconv.FormatUint(res.ID, 10)
		}
		first, last := "—", "—"
		if res.Used {
			first = strconv.Itoa(res.FirstPass)
			last = strconv.Itoa(res.LastPass)
		}
		t.Row(name, res.State, first, last)
	}
	return t.Render()
}

// fmtNames resolves a list of resource IDs to display names.
func fmtNames(ids []uint64, names map[framegraph.HandleID]string) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := names[framegraph.HandleID(id)]; name != "" {
			parts = append(parts, name)
		} else {
			parts = append(parts, "#"+strconv.FormatUint(id, 10))
		}
	}
	return strings.Join(parts, ", ")
}
