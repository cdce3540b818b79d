// Package nodelink renders dialogue graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph pictures using Graphviz: dialogue
// nodes appear as boxes, the entry node as a dark ellipse, and each edge is
// labelled with the choice it leaves through.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	opts := nodelink.Options{}
//	dot := nodelink.ToDOT(g, opts)
//	svg, err := nodelink.RenderSVG(ctx, dot, opts)
//
// Or let [Render] pick the output and report to the render hooks:
//
//	png, err := nodelink.Render(ctx, g, nodelink.FormatPNG, nodelink.Options{Pinned: true})
//
// # Options
//
//   - Detailed: node labels also show the kind and a short ID
//   - Pinned: nodes keep their canvas positions (neato layout) instead of
//     being ranked left to right
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no external binaries are required.
package nodelink
