// Package dialogue provides the live, mutable graph behind the narrative
// editor: dialogue nodes, their ports, and the edges between them.
//
// # Overview
//
// A narrative is a directed graph of dialogue nodes. Every graph holds exactly
// one entry node ("START"), which has a single fixed output port named "Next"
// and can be neither moved nor deleted. Every other node has one input port
// that accepts any number of incoming edges, and an ordered list of output
// ports called choices. Each choice carries an editable label and links to at
// most one target.
//
// # Basic Usage
//
// Create a graph with [New], which inserts the entry node at [EntryPosition].
// Nodes are built detached with [NewNode] and inserted with [Graph.AddNode]:
//
//	g := dialogue.New()
//	greet := dialogue.NewNode("Hello there", dialogue.Vec2{X: 400, Y: 200}, dialogue.KindDialogue)
//	_ = g.AddNode(greet)
//	g.Connect(g.EntryNode().Outputs[0], greet.Input)
//
//	yes := g.AddOutputPort(greet, "")  // labelled "Option 1"
//
// # Node Kinds
//
// [Kind] is a closed set ([KindDialogue], [KindSpeech], [KindEvent],
// [KindCondition]) backed by one creation table that supplies the menu title
// and default text. [Kinds] lists them in menu order; [ParseKind] reads the
// persisted names back.
//
// # Side Effects
//
// Mutations report their visual effects to a [Renderer] installed with
// [Graph.SetRenderer]. The default [NoopRenderer] discards them, so the graph
// works headless in tests and in the CLI.
//
// # Invariants
//
// [Graph.AddNode] and [Graph.RenameNode] guard identifier uniqueness and the
// single entry node. [Graph.Connect] rejects malformed endpoints by returning
// nil but does not enforce the one-edge-per-choice rule; editing surfaces do
// that, and [Graph.Validate] reports any violation.
package dialogue
