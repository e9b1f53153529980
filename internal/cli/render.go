package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gpukit/framegraph/pkg/cache"
	apperrors "github.com/gpukit/framegraph/pkg/errors"
	"github.com/gpukit/framegraph/pkg/export"
	"github.com/gpukit/framegraph/pkg/observability"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "dot", "svg", "png", "json"
	detailed bool     // include schedule slots and access counts in node labels
	noCache  bool     // bypass the artifact cache
}

// renderCommand creates the render command for generating schedule diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render a frame schedule as a Graphviz diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := apperrors.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include schedule slots and access counts in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	plan, _, _, err := c.buildPlan(ctx, input, opts.noCache)
	if err != nil {
		return err
	}
	logger.Infof("Planned schedule: %d passes, %d edges", len(plan.Passes), len(plan.Edges))

	store, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		data, cached, err := c.renderFormat(ctx, store, plan, format, opts.detailed)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeRender, err, "render %s", format)
		}

		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = fmt.Sprintf("%s.%s", base, format)
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}

		logger.Infof("Generated %s", path)
		printFile(path)
		printStats(len(plan.Passes), len(plan.Edges), cached)
	}
	return nil
}

// renderFormat produces one artifact format, consulting the artifact
// cache for the graphviz-backed formats.
func (c *CLI) renderFormat(ctx context.Context, store cache.Cache, plan *export.Plan, format string, detailed bool) ([]byte, bool, error) {
	format = strings.ToLower(format)

	dot := export.ToDOT(plan, export.DOTOptions{Detailed: detailed})
	switch format {
	case "dot":
		return []byte(dot), false, nil
	case "json":
		data, err := export.MarshalPlan(plan)
		return data, false, err
	}

	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: format})
	if data, hit, _ := store.Get(ctx, key); hit {
		observability.Cache().OnCacheHit("artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss("artifact")

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", format))
	spinner.Start()
	defer spinner.Stop()

	var data []byte
	var err error
	switch format {
	case "svg":
		data, err = export.RenderSVG(dot)
	case "png":
		data, err = export.RenderPNG(dot)
	default:
		err = apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
	if err != nil {
		return nil, false, err
	}

	if err := store.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet("artifact", len(data))
	}
	return data, false, nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output ends
// in a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case "dot", "svg", "png", "json":
		return strings.TrimSuffix(output, ext)
	}
	return output
}
