package flowgraph

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Graph owns a set of nodes and the directed edges wired between their
// attributes. It enforces two invariants at all times: the edge relation
// over attributes is acyclic, and every attribute has at most one incoming
// edge.
//
// All topology operations, live mutation, Save, and Load are serialized
// through one mutex; the engine assumes a single logical caller at a time
// and partial cascades are never observable.
type Graph struct {
	mu sync.Mutex

	// cascading marks a live mutation in flight on the mutating
	// goroutine. Nested SetValue calls made from change hooks see it set
	// and join the cascade instead of re-acquiring the lock.
	cascading atomic.Bool

	name   string
	uid    string
	types  *Types
	logger *slog.Logger
	tracer trace.Tracer

	nodes map[string]*Node
	order []*Node
	edges []*Edge
}

// New creates an empty graph. Unless overridden by options, it resolves
// node types through DefaultTypes, logs through slog.Default, and carries
// a freshly generated UID.
func New(opts ...Option) *Graph {
	g := &Graph{
		uid:    uuid.NewString(),
		types:  DefaultTypes,
		logger: slog.Default(),
		nodes:  make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph's display name.
func (g *Graph) Name() string { return g.name }

// UID returns the graph's unique identifier. Save persists it and Load
// restores it.
func (g *Graph) UID() string { return g.uid }

// Node returns the named node and whether it exists.
func (g *Graph) Node(name string) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns the graph's nodes in creation order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns the graph's edges in creation order.
func (g *Graph) Edges() []*Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// AddNewNode instantiates a node of the given registered type. Its name is
// generated as the first free "<type>_<n>". Every attribute is
// bypass-initialized from the descriptor default and then bypass-overwritten
// with any supplied initial value: no hooks fire and nothing propagates,
// even when an initial value differs from its default.
func (g *Graph) AddNewNode(typeName string, initial map[string]int) (*Node, error) {
	d, err := g.types.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := newNode(g, g.freeName(typeName), d, initial)
	if err != nil {
		return nil, err
	}
	g.nodes[n.name] = n
	g.order = append(g.order, n)
	g.logger.Debug("node added", "graph", g.name, "node", n.name, "type", typeName)
	return n, nil
}

// freeName returns the first "<type>_<n>" not taken by an existing node.
func (g *Graph) freeName(typeName string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", typeName, i)
		if _, taken := g.nodes[name]; !taken {
			return name
		}
	}
}

// RemoveNode removes the named node and every edge touching its
// attributes. Edge removal here is structural cleanup only: no values
// change, no hooks fire, and downstream attributes keep whatever value was
// last pushed into them.
func (g *Graph) RemoveNode(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[name]
	if !ok {
		return structuref("unknown node %q", name)
	}

	for _, a := range n.order {
		if e := a.incoming; e != nil {
			g.unlink(e)
		}
		// Snapshot: unlink mutates a.outgoing.
		for _, e := range append([]*Edge(nil), a.outgoing...) {
			g.unlink(e)
		}
	}

	delete(g.nodes, name)
	for i, other := range g.order {
		if other == n {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.logger.Debug("node removed", "graph", g.name, "node", name)
	return nil
}

// AddEdge connects src to dst and records the edge in creation order. It
// fails with a structure error, leaving the graph unchanged, when dst
// already has an incoming edge or when the edge would create a cycle.
//
// Connection is itself a live mutation of the destination: on success the
// source's value is pushed into dst through the live path, subject to the
// same change-detection, hook, and cascade rules as a direct assignment.
// The source attribute is never mutated. If a hook fails during that
// cascade the edge remains in place and the HookError surfaces.
func (g *Graph) AddEdge(src, dst *Attribute) (*Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if src.node.graph != g || dst.node.graph != g {
		return nil, structuref("edge endpoints must belong to this graph")
	}
	if dst.incoming != nil {
		return nil, structuref("attribute %s already has an incoming edge from %s",
			dst.Path(), dst.incoming.source.Path())
	}
	if src == dst || g.reachable(dst, src) {
		return nil, structuref("edge %s -> %s would create a cycle", src.Path(), dst.Path())
	}

	e := &Edge{source: src, destination: dst}
	g.edges = append(g.edges, e)
	src.outgoing = append(src.outgoing, e)
	dst.incoming = e
	g.logger.Debug("edge added", "graph", g.name, "edge", e.String())

	end := g.span("flowgraph.AddEdge", attribute.String("flowgraph.edge", e.String()))
	g.cascading.Store(true)
	defer g.cascading.Store(false)
	err := g.propagate(dst, src.value)
	end(err)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EdgeSpec names one source/destination pair for AddEdges.
type EdgeSpec struct {
	Source      *Attribute
	Destination *Attribute
}

// AddEdges applies AddEdge to each pair in order and stops at the first
// failure. Ordering is observable when pairs share nodes: later edges
// cascade starting from the state already updated by earlier ones.
func (g *Graph) AddEdges(specs ...EdgeSpec) ([]*Edge, error) {
	edges := make([]*Edge, 0, len(specs))
	for _, s := range specs {
		e, err := g.AddEdge(s.Source, s.Destination)
		if err != nil {
			return edges, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// RemoveEdge disconnects the edge ending at dst. Failing to find an
// incoming edge is a structure error. On success the edge is deleted and
// dst is reset to its schema default through the live path, so a real
// change fires hooks and cascades exactly like any other mutation.
func (g *Graph) RemoveEdge(dst *Attribute) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := dst.incoming
	if e == nil {
		return structuref("attribute %s has no incoming edge", dst.Path())
	}
	g.unlink(e)
	g.logger.Debug("edge removed", "graph", g.name, "edge", e.String())

	end := g.span("flowgraph.RemoveEdge", attribute.String("flowgraph.edge", e.String()))
	g.cascading.Store(true)
	defer g.cascading.Store(false)
	err := g.propagate(dst, dst.desc.Default)
	end(err)
	return err
}

// unlink structurally deletes an edge: no values change. Caller holds the
// lock.
func (g *Graph) unlink(e *Edge) {
	e.destination.incoming = nil
	e.source.outgoing = dropEdge(e.source.outgoing, e)
	g.edges = dropEdge(g.edges, e)
}

func dropEdge(edges []*Edge, e *Edge) []*Edge {
	for i, other := range edges {
		if other == e {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

// reachable reports whether to can be reached from from by following
// outgoing edges. Caller holds the lock.
func (g *Graph) reachable(from, to *Attribute) bool {
	if from == to {
		return true
	}
	for _, e := range from.outgoing {
		if g.reachable(e.destination, to) {
			return true
		}
	}
	return false
}
