// Package pkg provides the libraries behind the narrative dialogue editor.
//
// # Overview
//
// A narrative is a branching dialogue: a graph of nodes joined by labelled
// choices, rooted at a single START node. The pkg directory is organized
// into three areas:
//
//  1. Model: [dialogue] (the live, mutable graph) and [graph] (the
//     serializable record it is saved as)
//  2. Persistence: [codec] (graph to record and back) and [store] (named
//     records on disk, SQLite, Redis, MongoDB or PostgreSQL)
//  3. Surfaces: [editor] (save/load requests with user notifications),
//     [render] (Graphviz diagrams) and [cache] (rendered artifacts)
//
// Cross-cutting support lives in [errors] (coded errors with user-facing
// titles), [observability] (hooks for logging and metrics) and [buildinfo].
//
// # Architecture
//
// The data flow through a save and a load:
//
//	dialogue.Graph
//	      ↓  codec.Encode (checks edges and the entry node)
//	graph.Record
//	      ↓  store.Store.Put
//	backend (file, sqlite, redis, mongo, postgres)
//
//	backend → store.Store.Get → graph.Record → codec.Decode → dialogue.Graph
//
// # Quick Start
//
//	c := codec.New(store.NewMemoryStore(), logger)
//	s := editor.NewSession(c, notifier)
//
//	n := s.CreateNode(dialogue.KindDialogue, dialogue.Vec2{X: 400, Y: 200})
//	s.DragEdge(s.Graph.EntryNode().Outputs[0], n.Input)
//
//	if err := s.RequestSave(ctx, "Intro"); err != nil {
//	    // the notifier has already shown the problem to the user
//	}
//
// [dialogue]: github.com/matzehuels/narrative/pkg/dialogue
// [graph]: github.com/matzehuels/narrative/pkg/graph
// [codec]: github.com/matzehuels/narrative/pkg/codec
// [store]: github.com/matzehuels/narrative/pkg/store
// [editor]: github.com/matzehuels/narrative/pkg/editor
// [render]: github.com/matzehuels/narrative/pkg/render
// [cache]: github.com/matzehuels/narrative/pkg/cache
// [errors]: github.com/matzehuels/narrative/pkg/errors
// [observability]: github.com/matzehuels/narrative/pkg/observability
// [buildinfo]: github.com/matzehuels/narrative/pkg/buildinfo
package pkg
