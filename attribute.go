package flowgraph

// Attribute is a single integer value slot owned by a Node. It tracks
// whether its current value is still the schema default and whether it is
// the destination of an incoming edge. Attribute lifetime equals the
// lifetime of its owning node.
type Attribute struct {
	name      string
	value     int
	isDefault bool

	node *Node
	desc *ParamDesc

	// incoming is the single edge whose destination is this attribute, or
	// nil. The edge itself is owned by the graph; this is a lookup only.
	incoming *Edge

	// outgoing holds the edges sourced at this attribute in edge-creation
	// order. Cascades visit them in this order.
	outgoing []*Edge
}

// Name returns the attribute's identifier within its node.
func (a *Attribute) Name() string { return a.name }

// Value returns the attribute's current value.
func (a *Attribute) Value() int { return a.value }

// IsDefault reports whether the attribute still holds its schema default:
// the value has never been explicitly set and no edge has pushed a value
// into it since the last reset to default.
func (a *Attribute) IsDefault() bool { return a.isDefault }

// Node returns the owning node.
func (a *Attribute) Node() *Node { return a.node }

// Default returns the attribute's schema default value.
func (a *Attribute) Default() int { return a.desc.Default }

// IncomingEdge returns the edge whose destination is this attribute, or
// nil when the attribute is unconnected.
func (a *Attribute) IncomingEdge() *Edge { return a.incoming }

// OutgoingEdges returns the edges sourced at this attribute in
// edge-creation order.
func (a *Attribute) OutgoingEdges() []*Edge {
	out := make([]*Edge, len(a.outgoing))
	copy(out, a.outgoing)
	return out
}

// Path returns the attribute's graph-wide address in "node.attribute"
// form, the same form used by persisted edge references.
func (a *Attribute) Path() string { return a.node.name + "." + a.name }

// SetValue assigns the attribute through the live path: if v differs from
// the current value, the value is written, the owning node's change hook
// for this attribute fires, and the new value cascades across outgoing
// edges depth-first in edge-creation order. Assigning the current value is
// a no-op. Assigning an attribute that has an incoming edge is a structure
// error; its value is determined by the edge's source.
func (a *Attribute) SetValue(v int) error {
	return a.node.graph.setValue(a, v)
}

// setBypass writes the value with no hooks and no propagation, recomputing
// the default flag against the schema default. Construction only.
func (a *Attribute) setBypass(v int) {
	a.value = v
	a.isDefault = v == a.desc.Default
}

// setRaw writes a persisted value and default flag verbatim. Load only:
// the persisted flag is authoritative and is not recomputed.
func (a *Attribute) setRaw(v int, isDefault bool) {
	a.value = v
	a.isDefault = isDefault
}
