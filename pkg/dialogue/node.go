package dialogue

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	// InputPortLabel is the fixed label of every node's input port.
	InputPortLabel = "Input"
	// EntryPortLabel is the fixed label of the entry node's single output.
	EntryPortLabel = "Next"
	// EntryTitle is the display title of the entry node.
	EntryTitle = "START"
	// EntryText is the text carried by the entry node.
	EntryText = "ENTRYPOINT"
)

var (
	// EntryPosition is where [New] places the entry node.
	EntryPosition = Vec2{X: 100, Y: 200}
	// DefaultNodeSize is the initial on-canvas size of every node.
	DefaultNodeSize = Vec2{X: 200, Y: 150}
)

// Vec2 is a 2D canvas coordinate. It carries layout only.
type Vec2 struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Direction is the side of a node a port sits on.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Capacity bounds how many edges may attach to a port.
type Capacity int

const (
	// Single allows at most one edge.
	Single Capacity = iota
	// Multi allows any number of edges.
	Multi
)

// Port is a connection point on a node. Input ports accept many edges and
// carry the fixed label "Input"; output ports (choices) accept one edge and
// carry an editable label, except the entry node's "Next" port.
type Port struct {
	node      *Node
	label     string
	fixed     bool
	Direction Direction
	Capacity  Capacity
}

// Node returns the node that owns the port.
func (p *Port) Node() *Node { return p.node }

// Label returns the port's current label.
func (p *Port) Label() string { return p.label }

// Fixed reports whether the label is locked.
func (p *Port) Fixed() bool { return p.fixed }

// SetLabel renames a choice port. It is a no-op on fixed labels.
func (p *Port) SetLabel(label string) {
	if p.fixed {
		return
	}
	p.label = label
}

func (p *Port) String() string {
	if p.node == nil {
		return p.label
	}
	return p.node.ID + ":" + p.label
}

// Node is a vertex of the dialogue graph.
//
// ID is assigned at creation. Once the node is inserted into a [Graph], change
// it only through [Graph.RenameNode] so the graph index stays consistent.
type Node struct {
	ID         string
	Text       string
	Kind       Kind
	EntryPoint bool
	Position   Vec2
	Size       Vec2

	Input   *Port   // nil for the entry node
	Outputs []*Port // ordered choices

	movable   bool
	deletable bool
}

// NewNode creates a detached node with a fresh identifier, one multi-capacity
// input port and no outputs. An empty text falls back to the kind's default.
func NewNode(text string, position Vec2, kind Kind) *Node {
	if text == "" {
		text = kind.DefaultText()
	}
	n := &Node{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		Position:  position,
		Size:      DefaultNodeSize,
		movable:   true,
		deletable: true,
	}
	n.Input = &Port{node: n, label: InputPortLabel, fixed: true, Direction: Input, Capacity: Multi}
	return n
}

// NewEntryNode creates the detached entry node: one fixed "Next" output,
// no input, neither movable nor deletable.
func NewEntryNode(position Vec2) *Node {
	n := &Node{
		ID:         uuid.NewString(),
		Text:       EntryText,
		Kind:       KindDialogue,
		EntryPoint: true,
		Position:   position,
		Size:       DefaultNodeSize,
	}
	n.Outputs = []*Port{{node: n, label: EntryPortLabel, fixed: true, Direction: Output, Capacity: Single}}
	return n
}

// Movable reports whether the node may be repositioned.
func (n *Node) Movable() bool { return n.movable }

// Deletable reports whether the node may be removed from its graph.
func (n *Node) Deletable() bool { return n.deletable }

// Title returns the display title: "START" for the entry node, the text otherwise.
func (n *Node) Title() string {
	if n.EntryPoint {
		return EntryTitle
	}
	return n.Text
}

// Output returns the first output port labelled label, or nil.
func (n *Node) Output(label string) *Port {
	for _, p := range n.Outputs {
		if p.label == label {
			return p
		}
	}
	return nil
}

// Ports returns the input port (if any) followed by the outputs in order.
func (n *Node) Ports() []*Port {
	ports := make([]*Port, 0, len(n.Outputs)+1)
	if n.Input != nil {
		ports = append(ports, n.Input)
	}
	return append(ports, n.Outputs...)
}

func (n *Node) hasPort(p *Port) bool {
	if p == nil || p.node != n {
		return false
	}
	if p == n.Input {
		return true
	}
	for _, o := range n.Outputs {
		if o == p {
			return true
		}
	}
	return false
}

func (n *Node) nextChoiceLabel() string {
	return fmt.Sprintf("Option %d", len(n.Outputs)+1)
}
