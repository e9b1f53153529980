// Package export serializes built frame plans and renders them as
// Graphviz diagrams.
//
// A [Plan] is the portable snapshot of an executable frame graph: pass
// declarations, derived edges, the schedule, and resource lifetimes. It
// marshals to JSON for files and HTTP responses and to BSON for plan
// archives in MongoDB.
//
// The Graphviz surface converts a plan to DOT and renders SVG or PNG:
//
//	plan := export.FromGraph(exec)
//	dot := export.ToDOT(plan, export.DOTOptions{})
//	svg, err := export.RenderSVG(dot)
package export
