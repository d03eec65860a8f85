package flowgraph

// Node is a named instance of a node-type descriptor. It owns one
// Attribute per descriptor entry, created at construction time, and looks
// up change hooks on its descriptor when the propagation engine dispatches
// them. Nodes are created through Graph.AddNewNode and destroyed through
// Graph.RemoveNode.
type Node struct {
	name  string
	desc  *Descriptor
	graph *Graph

	attrs map[string]*Attribute
	order []*Attribute
}

// newNode constructs a node and bypass-initializes every attribute from
// the descriptor defaults, then bypass-overwrites the supplied initial
// values. No hooks fire and nothing propagates, regardless of whether an
// initial value differs from its default. Caller holds the graph lock.
func newNode(g *Graph, name string, d *Descriptor, initial map[string]int) (*Node, error) {
	n := &Node{
		name:  name,
		desc:  d,
		graph: g,
		attrs: make(map[string]*Attribute, len(d.Params)),
		order: make([]*Attribute, 0, len(d.Params)),
	}
	for i := range d.Params {
		p := &d.Params[i]
		a := &Attribute{
			name:      p.Name,
			value:     p.Default,
			isDefault: true,
			node:      n,
			desc:      p,
		}
		n.attrs[p.Name] = a
		n.order = append(n.order, a)
	}
	for name, v := range initial {
		a, ok := n.attrs[name]
		if !ok {
			return nil, structuref("node type %q has no attribute %q", d.Name, name)
		}
		a.setBypass(v)
	}
	return n, nil
}

// Name returns the node's graph-unique name.
func (n *Node) Name() string { return n.name }

// Type returns the name of the node's type descriptor.
func (n *Node) Type() string { return n.desc.Name }

// Attribute returns the named attribute and whether it exists.
func (n *Node) Attribute(name string) (*Attribute, bool) {
	a, ok := n.attrs[name]
	return a, ok
}

// Attributes returns the node's attributes in descriptor order.
func (n *Node) Attributes() []*Attribute {
	out := make([]*Attribute, len(n.order))
	copy(out, n.order)
	return out
}

// Value returns the named attribute's current value.
func (n *Node) Value(attr string) (int, error) {
	a, ok := n.attrs[attr]
	if !ok {
		return 0, structuref("node %q has no attribute %q", n.name, attr)
	}
	return a.value, nil
}

// SetValue assigns the named attribute through the live path. See
// Attribute.SetValue for the cascade semantics. Change hooks use this to
// mutate sibling attributes; such writes join the in-flight cascade.
func (n *Node) SetValue(attr string, v int) error {
	a, ok := n.attrs[attr]
	if !ok {
		return structuref("node %q has no attribute %q", n.name, attr)
	}
	return n.graph.setValue(a, v)
}
