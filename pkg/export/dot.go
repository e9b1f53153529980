package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed includes schedule positions and access counts in node
	// labels. When false, only the pass name is shown.
	Detailed bool
}

// ToDOT converts a plan to Graphviz DOT format. Passes become nodes,
// derived dependency edges become directed edges. The resulting DOT
// string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(p *Plan, opts DOTOptions) string {
	position := make(map[int]int, len(p.Order))
	for pos, idx := range p.Order {
		position[idx] = pos
	}

	var buf bytes.Buffer
	buf.WriteString("digraph frame {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, pass := range p.Passes {
		label := fmtLabel(pass, position[i], opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", pass.Name, label)
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", p.Passes[e.From].Name, p.Passes[e.To].Name)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(pass PassPlan, position int, detailed bool) string {
	if !detailed {
		return pass.Name
	}
	parts := []string{
		fmt.Sprintf("slot: %d", position),
		fmt.Sprintf("reads: %d", len(pass.Reads)),
		fmt.Sprintf("writes: %d", len(pass.Writes)),
	}
	return pass.Name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG, nil)
}

func render(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the image origin is 0,0
// and the pixel size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
