package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/observability"
)

// Format is a render output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Formats returns the supported output formats.
func Formats() []string {
	return []string{string(FormatDOT), string(FormatSVG), string(FormatPNG)}
}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node kind and a short ID under each node's text.
	Detailed bool

	// Pinned places nodes at their canvas positions instead of letting
	// Graphviz rank them left to right.
	Pinned bool
}

// ToDOT converts a dialogue graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// The entry node is drawn as a filled dark ellipse; every edge is labelled
// with the choice it leaves through.
func ToDOT(g *dialogue.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		if opts.Pinned {
			// Canvas y grows downward, Graphviz y upward.
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Position.X), fmtFloat(-n.Position.Y)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.SourceNode().ID, e.TargetNode().ID, e.Source.Label())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *dialogue.Node, detailed bool) string {
	if n.EntryPoint {
		return n.Title()
	}
	if !detailed {
		return n.Text
	}
	return fmt.Sprintf("%s\n%s · %s", n.Text, n.Kind, shortID(n.ID))
}

func fmtAttrs(n *dialogue.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.EntryPoint {
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=\"#333333\"", "fontcolor=white")
	}
	return attrs
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render draws g in the given format, emitting render hooks around the work.
// FormatDOT returns the DOT source without invoking Graphviz.
func Render(ctx context.Context, g *dialogue.Graph, format Format, opts Options) (out []byte, err error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, string(format), g.NodeCount())
	defer func() {
		observability.Render().OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	}()

	dot := ToDOT(g, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot, opts)
	case FormatPNG:
		return RenderPNG(ctx, dot, opts)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported render format %q (use %s)", format, strings.Join(Formats(), ", "))
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz. Pinned graphs are
// laid out with neato so the pos attributes hold.
func RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	return renderLayout(ctx, dot, layoutFor(opts), graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	return renderLayout(ctx, dot, layoutFor(opts), graphviz.PNG)
}

func layoutFor(opts Options) graphviz.Layout {
	if opts.Pinned {
		return graphviz.NEATO
	}
	return graphviz.DOT
}

func renderLayout(ctx context.Context, dot string, layout graphviz.Layout, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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
