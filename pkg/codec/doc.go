// Package codec converts between a live dialogue.Graph and its persisted
// graph.Record, and saves and loads records by name through a store.Store.
//
// # Saving
//
// [Encode] walks the graph: one link per edge in edge order, identified by
// source node, source port label and target node, then one node record per
// non-entry node in graph order. The entry node's identifier is stored as
// EntryID. A graph without edges is refused with EMPTY_GRAPH. Linked choices
// of one node may share a label.
//
// [Codec.Save] validates the name, encodes, and writes the result. An existing
// record under the same name is updated in place: its nodes, links and entry
// are replaced while Meta and CreatedAt are kept.
//
// # Loading
//
// [Decode] first checks the record against the graph and returns an
// integrity error without touching the graph if anything is off. It then runs
// three phases in strict order:
//
//  1. Rebind and clear: the entry node takes the stored entry identifier
//     (or the first link's source for older records) and every other node
//     and every edge is removed.
//  2. Materialize: each node record becomes a node with its stored identifier,
//     text and kind, plus one choice port per link leaving it, labelled as
//     stored and in storage order.
//  3. Reconnect: for each node in graph order, the j-th link leaving it is
//     paired with its j-th choice port and connected to the target's input;
//     the target takes its stored position. A node whose port count does not
//     match its link count is a DANGLING_REFERENCE.
//
// [Codec.Load] reports RECORD_NOT_FOUND and leaves the graph unchanged when
// nothing is stored under the name.
package codec
