package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gpukit/framegraph/pkg/framegraph"
	"github.com/gpukit/framegraph/pkg/gpu"
	"github.com/gpukit/framegraph/pkg/observability"
)

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	frames int  // number of frames to run
	watch  bool // live view while simulating
}

// simulateCommand creates the simulate command. It runs a manifest for a
// number of frames on the null device and reports per-pass timing.
func (c *CLI) simulateCommand() *cobra.Command {
	var opts simulateOpts

	cmd := &cobra.Command{
		Use:   "simulate [manifest]",
		Short: "Run a frame manifest on the null device and report pass timings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", defaultFrames, "number of frames to simulate")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "show a live view while simulating")

	return cmd
}

// simStats collects frame hook events during a simulation run.
// Safe for concurrent use; the watch view reads while frames execute.
type simStats struct {
	observability.NoopFrameHooks

	mu        sync.Mutex
	passTotal map[string]time.Duration
	passRuns  map[string]int
	submits   int
	batches   int
}

func newSimStats() *simStats {
	return &simStats{
		passTotal: make(map[string]time.Duration),
		passRuns:  make(map[string]int),
	}
}

func (s *simStats) OnPassExecute(pass string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passTotal[pass] += d
	s.passRuns[pass]++
}

func (s *simStats) OnSubmit(batches int, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submits++
	s.batches += batches
}

// snapshot returns the collected rows sorted by pass name.
func (s *simStats) snapshot() ([]passStat, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]passStat, 0, len(s.passTotal))
	for name, total := range s.passTotal {
		runs := s.passRuns[name]
		rows = append(rows, passStat{
			name:  name,
			runs:  runs,
			total: total,
			avg:   total / time.Duration(runs),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	return rows, s.submits, s.batches
}

type passStat struct {
	name  string
	runs  int
	total time.Duration
	avg   time.Duration
}

func (c *CLI) runSimulate(ctx context.Context, path string, opts *simulateOpts) error {
	logger := loggerFromContext(ctx)

	if opts.frames <= 0 {
		opts.frames = defaultFrames
	}

	manifest, err := LoadManifest(path)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger.Infof("Simulating %s for %d frames (run %s)", path, opts.frames, runID)

	stats := newSimStats()
	observability.SetFrameHooks(stats)
	defer observability.Reset()

	if opts.watch {
		if err := c.watchSimulation(ctx, manifest, stats, opts.frames); err != nil {
			return err
		}
	} else {
		p := newProgress(logger)
		if err := runFrames(ctx, manifest, opts.frames, nil); err != nil {
			return err
		}
		p.done(fmt.Sprintf("Simulated %d frames", opts.frames))
	}

	rows, submits, batches := stats.snapshot()

	printNewline()
	fmt.Println(StyleTitle.Render("Pass timings"))
	t := planTable("Pass", "Runs", "Total", "Avg")
	for _, row := range rows {
		t.Row(
			row.name,
			strconv.Itoa(row.runs),
			row.total.Round(time.Microsecond).String(),
			row.avg.Round(time.Microsecond).String(),
		)
	}
	fmt.Println(t.Render())
	printDetail("run: %s", runID)
	printDetail("submissions: %d (%d batches)", submits, batches)
	return nil
}

// runFrames declares, builds, and executes the manifest once per frame.
// Each frame gets a fresh declaration because Build consumes the graph.
// onFrame, when non-nil, is called after every completed frame.
func runFrames(ctx context.Context, manifest *Manifest, frames int, onFrame func(int)) error {
	device := gpu.NewNullDevice()
	queue := gpu.NewNullQueue()
	resources := framegraph.NewRegistry()

	for frame := 0; frame < frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		g, _, err := manifest.Declare()
		if err != nil {
			return err
		}
		exec, err := g.Build()
		if err != nil {
			return err
		}
		exec.Execute(device, queue, resources)
		queue.Reset()

		if onFrame != nil {
			onFrame(frame + 1)
		}
	}
	return nil
}

// watchSimulation runs the frames under a bubbletea live view.
func (c *CLI) watchSimulation(ctx context.Context, manifest *Manifest, stats *simStats, frames int) error {
	model := newSimulateModel(frames, stats)
	program := tea.NewProgram(model, tea.WithContext(ctx))

	go func() {
		err := runFrames(ctx, manifest, frames, func(done int) {
			program.Send(frameDoneMsg{done: done})
		})
		program.Send(simFinishedMsg{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(simulateModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
