package codec

import (
	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
)

// Encode flattens g into a record with an empty name.
//
// Returns EMPTY_GRAPH when g has no edges, NO_ENTRY_NODE when it has no entry
// node, and INVALID_INPUT when one choice carries more than one link. Choices
// of one node may share a label; they are told apart by order on load.
func Encode(g *dialogue.Graph) (*graph.Record, error) {
	edges := g.Edges()
	if len(edges) == 0 {
		return nil, errs.New(errs.ErrCodeEmptyGraph, "graph has no links to save")
	}
	entry := g.EntryNode()
	if entry == nil {
		return nil, errs.New(errs.ErrCodeNoEntryNode, "graph has no entry node")
	}

	rec := &graph.Record{
		EntryID: entry.ID,
		Nodes:   make([]graph.NodeRecord, 0, g.NodeCount()-1),
		Links:   make([]graph.LinkRecord, 0, len(edges)),
	}

	linked := make(map[*dialogue.Port]bool, len(edges))
	for _, e := range edges {
		if e.Target == nil {
			continue
		}
		src := e.SourceNode()
		if linked[e.Source] {
			return nil, errs.New(errs.ErrCodeInvalidInput,
				"choice %q of node %s has more than one link", e.Source.Label(), src.ID)
		}
		linked[e.Source] = true

		rec.Links = append(rec.Links, graph.LinkRecord{
			SourceID:        src.ID,
			SourcePortLabel: e.Source.Label(),
			TargetID:        e.TargetNode().ID,
		})
	}

	for _, n := range g.Nodes() {
		if n.EntryPoint {
			continue
		}
		rec.Nodes = append(rec.Nodes, graph.NodeRecord{
			ID:       n.ID,
			Text:     n.Text,
			Kind:     n.Kind.String(),
			Position: graph.Position{X: n.Position.X, Y: n.Position.Y},
		})
	}
	return rec, nil
}
