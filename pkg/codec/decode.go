package codec

import (
	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
)

// Check reports whether rec can be decoded into g without touching g.
//
// Returns NO_ENTRY_NODE if g has no entry node, DUPLICATE_NODE for repeated
// or entry-colliding node identifiers, INVALID_FORMAT for empty identifiers
// or unknown kinds, and DANGLING_REFERENCE for links whose endpoints or entry
// port cannot be resolved. A record without EntryID whose first link leaves a
// stored node is also a DANGLING_REFERENCE: its entry cannot be recovered.
func Check(g *dialogue.Graph, rec *graph.Record) error {
	entry := g.EntryNode()
	if entry == nil {
		return errs.New(errs.ErrCodeNoEntryNode, "graph has no entry node")
	}
	entryID := rec.ResolvedEntryID()

	ids := make(map[string]bool, len(rec.Nodes))
	for _, n := range rec.Nodes {
		if n.ID == "" {
			return errs.New(errs.ErrCodeInvalidFormat, "node record without id")
		}
		if n.ID == entryID {
			if rec.EntryID == "" {
				return errs.New(errs.ErrCodeDanglingReference,
					"legacy record's first link does not leave the entry node (it leaves %s)", n.ID)
			}
			return errs.New(errs.ErrCodeDuplicateNode, "node %s collides with the entry node", n.ID)
		}
		if ids[n.ID] {
			return errs.New(errs.ErrCodeDuplicateNode, "node %s is stored more than once", n.ID)
		}
		if _, err := dialogue.ParseKind(n.Kind); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		ids[n.ID] = true
	}

	entryLinks := 0
	for i, l := range rec.Links {
		switch {
		case l.SourceID == entryID:
			if entryLinks >= len(entry.Outputs) || entry.Outputs[entryLinks].Label() != l.SourcePortLabel {
				return errs.New(errs.ErrCodeDanglingReference,
					"link %d leaves the entry node through unknown port %q", i, l.SourcePortLabel)
			}
			entryLinks++
		case !ids[l.SourceID]:
			return errs.New(errs.ErrCodeDanglingReference, "link %d has unknown source %s", i, l.SourceID)
		}
		if !ids[l.TargetID] {
			return errs.New(errs.ErrCodeDanglingReference, "link %d has unknown target %s", i, l.TargetID)
		}
	}
	return nil
}

// Decode replaces the contents of g with rec. See the package documentation
// for the phases. If [Check] fails, g is left untouched and the check error
// is returned.
func Decode(g *dialogue.Graph, rec *graph.Record) error {
	if err := Check(g, rec); err != nil {
		return err
	}
	entry := g.EntryNode()

	// Phase 1: clear, then rebind the entry identifier.
	g.Clear()
	if id := rec.ResolvedEntryID(); id != "" {
		if err := g.RenameNode(entry, id); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "rebind entry node to %s", id)
		}
	}

	// Phase 2: materialize nodes and their choice ports.
	for _, nr := range rec.Nodes {
		kind, _ := dialogue.ParseKind(nr.Kind)
		n := dialogue.NewNode(nr.Text, dialogue.Vec2{}, kind)
		n.ID = nr.ID
		n.Text = nr.Text
		if err := g.AddNode(n); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "insert node %s", nr.ID)
		}
		for _, l := range rec.LinksFrom(n.ID) {
			p := g.AddOutputPort(n, l.SourcePortLabel)
			p.SetLabel(l.SourcePortLabel) // keeps an empty stored label from becoming "Option N"
		}
	}

	// Phase 3: pair the j-th link of each node with its j-th choice port,
	// connect, and place link targets.
	placed := make(map[string]bool, len(rec.Nodes))
	for _, n := range g.Nodes() {
		links := rec.LinksFrom(n.ID)
		if len(links) > len(n.Outputs) || (!n.EntryPoint && len(links) != len(n.Outputs)) {
			return errs.New(errs.ErrCodeDanglingReference,
				"node %s has %d links for %d choices", n.ID, len(links), len(n.Outputs))
		}
		for j, l := range links {
			src := n.Outputs[j]
			target, ok := g.Node(l.TargetID)
			if !ok {
				return errs.New(errs.ErrCodeDanglingReference,
					"cannot reconnect %s:%q to %s", n.ID, l.SourcePortLabel, l.TargetID)
			}
			if g.Connect(src, target.Input) == nil {
				return errs.New(errs.ErrCodeInternal,
					"connect %s:%q to %s", n.ID, l.SourcePortLabel, l.TargetID)
			}
			g.MoveNode(target, position(rec.Node(l.TargetID)))
			placed[target.ID] = true
		}
	}

	// Nodes nothing links to still get their stored position.
	for _, nr := range rec.Nodes {
		if placed[nr.ID] {
			continue
		}
		if n, ok := g.Node(nr.ID); ok {
			g.MoveNode(n, position(&nr))
		}
	}
	return nil
}

func position(nr *graph.NodeRecord) dialogue.Vec2 {
	return dialogue.Vec2{X: nr.Position.X, Y: nr.Position.Y}
}
