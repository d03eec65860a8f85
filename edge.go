package flowgraph

// Edge is a directed link from a source attribute to a destination
// attribute. While the edge exists, the destination's value mirrors the
// source's: every live change at the source is pushed across the edge.
// Destinations accept at most one incoming edge; sources may fan out.
//
// Edges are owned by the Graph and created through Graph.AddEdge; the
// attribute endpoints hold non-owning references only.
type Edge struct {
	source      *Attribute
	destination *Attribute
}

// Source returns the attribute acting as the value origin.
func (e *Edge) Source() *Attribute { return e.source }

// Destination returns the attribute acting as the value sink.
func (e *Edge) Destination() *Attribute { return e.destination }

// String returns the edge in "src.attr -> dst.attr" form.
func (e *Edge) String() string {
	return e.source.Path() + " -> " + e.destination.Path()
}
