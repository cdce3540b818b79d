package graph

import (
	"maps"
	"slices"
	"time"
)

// =============================================================================
// Constants
// =============================================================================

// Format names a record file encoding.
type Format string

// Supported record formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
func Formats() []Format { return []Format{FormatJSON, FormatYAML} }

// =============================================================================
// Record - Persisted Dialogue Graph
// =============================================================================

// Record is the flat, serializable form of a dialogue graph.
//
// The entry node itself is never stored in Nodes; EntryID names it so links
// leaving it can be resolved. Records written before EntryID existed leave it
// empty, and readers fall back to the source of the first link.
//
// Meta, CreatedAt and UpdatedAt belong to storage. Saving a graph over an
// existing record replaces EntryID, Nodes and Links and leaves Meta and
// CreatedAt as they were.
type Record struct {
	Name      string         `json:"name" yaml:"name" bson:"name"`
	EntryID   string         `json:"entry_id,omitempty" yaml:"entry_id,omitempty" bson:"entry_id,omitempty"`
	Nodes     []NodeRecord   `json:"nodes" yaml:"nodes" bson:"nodes"`
	Links     []LinkRecord   `json:"links" yaml:"links" bson:"links"`
	Meta      map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitzero" yaml:"created_at,omitempty" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at,omitzero" yaml:"updated_at,omitempty" bson:"updated_at"`
}

// NodeRecord is one non-entry node.
type NodeRecord struct {
	ID       string   `json:"id" yaml:"id" bson:"id"`
	Text     string   `json:"text" yaml:"text" bson:"text"`
	Kind     string   `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Position Position `json:"position" yaml:"position" bson:"position"`
}

// Position is a stored canvas coordinate.
type Position struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// LinkRecord is one edge, identified by its source node, the label of the
// source output port, and the target node.
type LinkRecord struct {
	SourceID        string `json:"source_id" yaml:"source_id" bson:"source_id"`
	SourcePortLabel string `json:"source_port" yaml:"source_port" bson:"source_port"`
	TargetID        string `json:"target_id" yaml:"target_id" bson:"target_id"`
}

// Node returns the node record with the given ID, or nil.
func (r *Record) Node(id string) *NodeRecord {
	for i := range r.Nodes {
		if r.Nodes[i].ID == id {
			return &r.Nodes[i]
		}
	}
	return nil
}

// LinksFrom returns the links whose source is id, in storage order.
func (r *Record) LinksFrom(id string) []LinkRecord {
	var out []LinkRecord
	for _, l := range r.Links {
		if l.SourceID == id {
			out = append(out, l)
		}
	}
	return out
}

// ResolvedEntryID returns EntryID, or the source of the first link for
// records that predate it. Returns "" when neither is available.
func (r *Record) ResolvedEntryID() string {
	if r.EntryID != "" {
		return r.EntryID
	}
	if len(r.Links) > 0 {
		return r.Links[0].SourceID
	}
	return ""
}

// Clone returns a copy of r that shares no slices or maps with it.
// Meta is copied one level deep.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Nodes = slices.Clone(r.Nodes)
	out.Links = slices.Clone(r.Links)
	if r.Meta != nil {
		out.Meta = maps.Clone(r.Meta)
	}
	return &out
}

// Summary is a short listing entry for a stored record.
type Summary struct {
	Name      string    `json:"name" yaml:"name"`
	Nodes     int       `json:"nodes" yaml:"nodes"`
	Links     int       `json:"links" yaml:"links"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// Summarize returns the listing entry for r.
func (r *Record) Summarize() Summary {
	return Summary{Name: r.Name, Nodes: len(r.Nodes), Links: len(r.Links), UpdatedAt: r.UpdatedAt}
}
