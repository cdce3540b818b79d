// Package editor provides the editing session that sits between a user
// surface (a canvas, the CLI) and the dialogue graph.
//
// A [Session] owns one graph, the codec used to save and load it, and a
// [Notifier] for user-facing messages. Every inbound user action is a method
// on Session; failures are reported through the notifier and also returned,
// and the session stays usable afterwards.
package editor

import (
	"context"

	"github.com/matzehuels/narrative/pkg/codec"
	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
)

// DefaultName is the record name a new session starts with.
const DefaultName = "New Narrative"

// Notifier shows a message dialog to the user.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, message string)

// Notify calls f(title, message).
func (f NotifierFunc) Notify(title, message string) { f(title, message) }

// NoopNotifier discards every message.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) {}

// Session is a single-user editing context. It is not safe for concurrent use.
type Session struct {
	Graph    *dialogue.Graph
	Codec    *codec.Codec
	Notifier Notifier

	// Name is the record name last saved or loaded, DefaultName before that.
	Name string
}

// NewSession starts a session on a fresh graph holding only the entry node.
// A nil notifier discards messages.
func NewSession(c *codec.Codec, n Notifier) *Session {
	if n == nil {
		n = NoopNotifier{}
	}
	return &Session{
		Graph:    dialogue.New(),
		Codec:    c,
		Notifier: n,
		Name:     DefaultName,
	}
}

func (s *Session) fail(err error) error {
	s.Notifier.Notify(errs.Title(err), errs.UserMessage(err))
	return err
}

// =============================================================================
// Persistence
// =============================================================================

// RequestSave saves the graph under name. On success the session adopts name.
func (s *Session) RequestSave(ctx context.Context, name string) error {
	if _, err := s.Codec.Save(ctx, s.Graph, name); err != nil {
		return s.fail(err)
	}
	s.Name = name
	return nil
}

// RequestLoad replaces the graph with the record stored under name. On
// failure the graph is left as it was.
func (s *Session) RequestLoad(ctx context.Context, name string) error {
	if err := s.Codec.Load(ctx, s.Graph, name); err != nil {
		return s.fail(err)
	}
	s.Name = name
	return nil
}

// =============================================================================
// Editing
// =============================================================================

// CreateNode adds a node of the given kind at pos, carrying the kind's
// default text.
func (s *Session) CreateNode(kind dialogue.Kind, pos dialogue.Vec2) *dialogue.Node {
	n := dialogue.NewNode("", pos, kind)
	// Fresh UUIDs cannot collide and n is not an entry node.
	_ = s.Graph.AddNode(n)
	return n
}

// AddChoice appends a choice port to n. An empty label yields "Option N".
func (s *Session) AddChoice(n *dialogue.Node, label string) *dialogue.Port {
	return s.Graph.AddOutputPort(n, label)
}

// RenameChoice relabels a choice port. Fixed labels are left alone.
func (s *Session) RenameChoice(p *dialogue.Port, label string) {
	if p.Fixed() {
		return
	}
	p.SetLabel(label)
	s.Graph.Renderer().PortsChanged(p.Node())
}

// RemovePort deletes a choice port and its edges.
func (s *Session) RemovePort(n *dialogue.Node, p *dialogue.Port) {
	s.Graph.RemovePort(n, p)
}

// RemoveNode deletes n and its edges. The entry node cannot be removed.
func (s *Session) RemoveNode(n *dialogue.Node) {
	s.Graph.RemoveNode(n)
}

// RemoveEdge deletes a single edge.
func (s *Session) RemoveEdge(e *dialogue.Edge) {
	s.Graph.RemoveEdge(e)
}

// MoveNode repositions n. The entry node does not move.
func (s *Session) MoveNode(n *dialogue.Node, pos dialogue.Vec2) {
	s.Graph.MoveNode(n, pos)
}

// EditText replaces the text of n. The entry node's text is fixed.
func (s *Session) EditText(n *dialogue.Node, text string) {
	if n.EntryPoint {
		return
	}
	n.Text = text
	s.Graph.Renderer().PortsChanged(n)
}

// DragEdge links two ports the way a drag on the canvas does. The ports may
// be given in either order. The drop is refused (nil) unless the pair is
// compatible; a choice that already has a link loses it to the new one.
func (s *Session) DragEdge(from, to *dialogue.Port) *dialogue.Edge {
	if from == nil || to == nil {
		return nil
	}
	if from.Direction == dialogue.Input {
		from, to = to, from
	}
	if !s.compatible(from, to) {
		return nil
	}
	for _, e := range s.Graph.EdgesAt(from) {
		s.Graph.RemoveEdge(e)
	}
	return s.Graph.Connect(from, to)
}

func (s *Session) compatible(from, to *dialogue.Port) bool {
	for _, p := range s.Graph.CompatiblePorts(from) {
		if p == to {
			return true
		}
	}
	return false
}
