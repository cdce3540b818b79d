// Package graph provides the persisted form of dialogue graphs.
//
// A [Record] flattens a live dialogue.Graph into a node list and a link list
// keyed by stable node identifiers. The codec in pkg/codec converts between
// the two; this package only owns the types and their encodings.
//
// # Record Layout
//
// Records are written as JSON or YAML:
//
//	{
//	  "name": "intro",
//	  "entry_id": "5f0c...",
//	  "nodes": [{"id": "a1", "text": "Hello", "kind": "dialogue", "position": {"x": 400, "y": 200}}],
//	  "links": [{"source_id": "5f0c...", "source_port": "Next", "target_id": "a1"}]
//	}
//
// The entry node never appears in nodes. Links leaving one node are stored in
// the order of its choices; that order, not the label, ties a link to its
// port, so labels may repeat.
//
// Common operations:
//
//	rec, _ := graph.ReadFile("intro.yaml")      // File → Record
//	graph.WriteFile(rec, "intro.json")         // Record → File
//	data, _ := graph.Marshal(rec, graph.FormatYAML)
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct records.
package graph
