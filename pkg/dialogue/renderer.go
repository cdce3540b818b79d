package dialogue

// Renderer receives the visual side effects of graph mutations. A canvas
// implements it to add and remove widgets; the graph never reads anything back.
type Renderer interface {
	NodeAdded(n *Node)
	NodeRemoved(n *Node)
	PortsChanged(n *Node)
	NodeMoved(n *Node)
	EdgeAdded(e *Edge)
	EdgeRemoved(e *Edge)
}

// NoopRenderer discards every notification. It is the default for new graphs.
type NoopRenderer struct{}

func (NoopRenderer) NodeAdded(*Node)    {}
func (NoopRenderer) NodeRemoved(*Node)  {}
func (NoopRenderer) PortsChanged(*Node) {}
func (NoopRenderer) NodeMoved(*Node)    {}
func (NoopRenderer) EdgeAdded(*Edge)    {}
func (NoopRenderer) EdgeRemoved(*Edge)  {}

var _ Renderer = NoopRenderer{}
