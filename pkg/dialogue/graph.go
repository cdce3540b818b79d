package dialogue

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.RenameNode]
	// when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] and [Graph.RenameNode]
	// when a node with the same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.RenameNode] when the node is not
	// part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrMultipleEntryNodes is returned by [Graph.AddNode] when a second
	// entry node is inserted, and by [Graph.Validate] if one slipped in.
	ErrMultipleEntryNodes = errors.New("graph already has an entry node")

	// ErrNoEntryNode is returned by [Graph.Validate] when the graph holds no
	// entry node.
	ErrNoEntryNode = errors.New("graph has no entry node")

	// ErrPortCapacity is returned by [Graph.Validate] when a single-capacity
	// port carries more than one edge.
	ErrPortCapacity = errors.New("port capacity exceeded")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a port or node that is not part of the graph.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrUnknownKind is returned by [ParseKind] for names outside the kind set.
	ErrUnknownKind = errors.New("unknown node kind")
)

// Edge connects an output port to an input port. Edges are owned by the
// graph; create them with [Graph.Connect].
type Edge struct {
	Source *Port // output port
	Target *Port // input port
}

// SourceNode returns the node that owns the source port.
func (e *Edge) SourceNode() *Node { return e.Source.node }

// TargetNode returns the node that owns the target port.
func (e *Edge) TargetNode() *Node { return e.Target.node }

// Graph is the live dialogue graph: nodes in insertion order, an id index
// and the edges between their ports.
//
// The zero value is not usable; use [New] or [NewEmpty].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    []*Node
	byID     map[string]*Node
	edges    []*Edge
	renderer Renderer
}

// New creates a graph holding a fresh entry node at [EntryPosition].
func New() *Graph {
	g := NewEmpty()
	_ = g.AddNode(NewEntryNode(EntryPosition))
	return g
}

// NewEmpty creates a graph with no nodes, not even an entry node.
func NewEmpty() *Graph {
	return &Graph{
		byID:     make(map[string]*Node),
		renderer: NoopRenderer{},
	}
}

// SetRenderer installs r as the receiver of visual side effects.
// A nil renderer restores the no-op default.
func (g *Graph) SetRenderer(r Renderer) {
	if r == nil {
		r = NoopRenderer{}
	}
	g.renderer = r
}

// Renderer returns the installed renderer.
func (g *Graph) Renderer() Renderer { return g.renderer }

// AddNode inserts n at the end of the node order.
// Returns ErrInvalidNodeID if the ID is empty, ErrDuplicateNodeID if the ID
// is taken, or ErrMultipleEntryNodes if n is an entry node and the graph
// already has one.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.byID[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.EntryPoint && g.EntryNode() != nil {
		return ErrMultipleEntryNodes
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	g.renderer.NodeAdded(n)
	return nil
}

// AddOutputPort appends a choice port to n. An empty label is replaced by
// "Option N", where N is the current output count plus one. The label is
// not checked for uniqueness.
func (g *Graph) AddOutputPort(n *Node, label string) *Port {
	if label == "" {
		label = n.nextChoiceLabel()
	}
	p := &Port{node: n, label: label, Direction: Output, Capacity: Single}
	n.Outputs = append(n.Outputs, p)
	g.renderer.PortsChanged(n)
	return p
}

// RemovePort removes every edge attached to p, then p itself. Fixed ports
// and ports not found on n are left alone.
func (g *Graph) RemovePort(n *Node, p *Port) {
	if p == nil || p.fixed || !n.hasPort(p) {
		return
	}
	for _, e := range g.EdgesAt(p) {
		g.RemoveEdge(e)
	}
	n.Outputs = slices.DeleteFunc(n.Outputs, func(o *Port) bool { return o == p })
	g.renderer.PortsChanged(n)
}

// Connect registers an edge from the output port src to the input port dst.
// It returns nil when either endpoint is nil, has the wrong direction, or
// belongs to a node outside the graph. Connect does not enforce the
// single-edge capacity of src; [Graph.Validate] reports violations.
func (g *Graph) Connect(src, dst *Port) *Edge {
	if src == nil || dst == nil {
		return nil
	}
	if src.Direction != Output || dst.Direction != Input {
		return nil
	}
	if !g.owns(src) || !g.owns(dst) {
		return nil
	}
	e := &Edge{Source: src, Target: dst}
	g.edges = append(g.edges, e)
	g.renderer.EdgeAdded(e)
	return e
}

// RemoveEdge removes e from the graph. No-op if e is not registered.
func (g *Graph) RemoveEdge(e *Edge) {
	i := slices.Index(g.edges, e)
	if i < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	g.renderer.EdgeRemoved(e)
}

// RemoveNode removes n and every edge touching it. Non-deletable nodes
// (the entry node) and nodes outside the graph are left alone.
func (g *Graph) RemoveNode(n *Node) {
	if n == nil || !n.deletable || g.byID[n.ID] != n {
		return
	}
	g.removeNode(n)
}

func (g *Graph) removeNode(n *Node) {
	for _, e := range g.EdgesOf(n) {
		g.RemoveEdge(e)
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(o *Node) bool { return o == n })
	delete(g.byID, n.ID)
	g.renderer.NodeRemoved(n)
}

// Clear removes every non-entry node and every edge, including the entry
// node's outgoing edges. The entry node's ports are kept.
func (g *Graph) Clear() {
	for _, e := range slices.Clone(g.edges) {
		g.RemoveEdge(e)
	}
	for _, n := range slices.Clone(g.nodes) {
		if !n.EntryPoint {
			g.removeNode(n)
		}
	}
}

// RenameNode changes the ID of a node already in the graph.
// Returns ErrInvalidNodeID if newID is empty, ErrUnknownNode if n is not in
// the graph, or ErrDuplicateNodeID if another node already uses newID.
// Renaming a node to its current ID is a no-op.
func (g *Graph) RenameNode(n *Node, newID string) error {
	if newID == "" {
		return ErrInvalidNodeID
	}
	if n == nil || g.byID[n.ID] != n {
		return ErrUnknownNode
	}
	if newID == n.ID {
		return nil
	}
	if _, exists := g.byID[newID]; exists {
		return ErrDuplicateNodeID
	}
	delete(g.byID, n.ID)
	n.ID = newID
	g.byID[newID] = n
	return nil
}

// MoveNode sets the position of n. No-op for non-movable nodes.
func (g *Graph) MoveNode(n *Node, pos Vec2) {
	if !n.movable {
		return
	}
	n.Position = pos
	g.renderer.NodeMoved(n)
}

// Nodes returns the nodes in insertion order. The slice is a copy; the
// node pointers are live.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns the edges in insertion order. The slice is a copy.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes, entry node included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// EntryNode returns the entry node, or nil if the graph has none.
func (g *Graph) EntryNode() *Node {
	for _, n := range g.nodes {
		if n.EntryPoint {
			return n
		}
	}
	return nil
}

// EdgesAt returns the edges attached to p, in edge order.
func (g *Graph) EdgesAt(p *Port) []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Source == p || e.Target == p {
			out = append(out, e)
		}
	}
	return out
}

// EdgesOf returns the edges touching any port of n, in edge order.
func (g *Graph) EdgesOf(n *Node) []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Source.node == n || e.Target.node == n {
			out = append(out, e)
		}
	}
	return out
}

// CompatiblePorts returns every port start can be linked to: ports of the
// opposite direction on other nodes, in node order.
func (g *Graph) CompatiblePorts(start *Port) []*Port {
	var out []*Port
	for _, n := range g.nodes {
		if n == start.node {
			continue
		}
		for _, p := range n.Ports() {
			if p != start && p.Direction != start.Direction {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate checks graph integrity and returns nil if valid.
// It verifies three constraints:
//
//  1. Exactly one entry node exists
//  2. Every edge joins an output port to an input port of nodes in the graph
//  3. No single-capacity port carries more than one edge
//
// Returns ErrNoEntryNode, ErrMultipleEntryNodes, ErrInvalidEdgeEndpoint or
// ErrPortCapacity respectively.
func (g *Graph) Validate() error {
	entries := 0
	for _, n := range g.nodes {
		if n.EntryPoint {
			entries++
		}
	}
	switch {
	case entries == 0:
		return ErrNoEntryNode
	case entries > 1:
		return ErrMultipleEntryNodes
	}

	load := make(map[*Port]int, len(g.edges))
	for _, e := range g.edges {
		if e.Source.Direction != Output || e.Target.Direction != Input {
			return ErrInvalidEdgeEndpoint
		}
		if !g.owns(e.Source) || !g.owns(e.Target) {
			return ErrInvalidEdgeEndpoint
		}
		load[e.Source]++
		load[e.Target]++
	}
	for p, count := range load {
		if p.Capacity == Single && count > 1 {
			return ErrPortCapacity
		}
	}
	return nil
}

func (g *Graph) owns(p *Port) bool {
	n := p.node
	return n != nil && g.byID[n.ID] == n && n.hasPort(p)
}
