// Package render groups the visualization backends for dialogue graphs.
//
// # Overview
//
// Rendering is read-only: it takes a live [dialogue.Graph] and produces an
// artifact without touching the persisted record. The CLI caches artifacts
// by graph hash through [cache.ArtifactKey], so unchanged narratives are not
// laid out twice.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage emits Graphviz DOT and renders it to SVG or PNG
// in-process:
//
//	out, err := nodelink.Render(ctx, g, nodelink.FormatSVG, nodelink.Options{Detailed: true})
//
// [dialogue.Graph]: github.com/matzehuels/narrative/pkg/dialogue.Graph
// [cache.ArtifactKey]: github.com/matzehuels/narrative/pkg/cache.ArtifactKey
// [nodelink]: github.com/matzehuels/narrative/pkg/render/nodelink
package render
