// Package flowgraph implements the dependency-propagation core of a
// node-graph pipeline: a directed acyclic graph of typed processing nodes
// whose input/output attributes can be wired together, such that a value
// change at one attribute deterministically cascades to every attribute
// downstream of it, invoking per-attribute change hooks along the way.
//
// # Core Concepts
//
// The package is organized around a small set of types:
//
//   - Descriptor: the schema of a node type: its attributes, their default
//     values, and optional change hooks
//   - Node: a named instance of a Descriptor, owning one Attribute per
//     schema entry
//   - Attribute: a single integer value slot on a Node, tracking whether it
//     still holds its schema default
//   - Edge: a directed link forcing a destination attribute to mirror a
//     source attribute; a destination accepts at most one incoming edge
//   - Graph: the owner of all nodes and edges, enforcing the acyclic and
//     single-incoming-edge invariants
//
// # Live vs. Bypass Mutation
//
// Every write to an attribute travels one of two paths. The live path,
// used by direct assignment, Graph.AddEdge, and Graph.RemoveEdge, detects
// real changes, fires the owning node's change hook, and propagates the new
// value depth-first across outgoing edges in edge-creation order. The
// bypass path, used by node construction and by Load, writes raw state
// with no hooks and no propagation, so reloading a saved graph never
// re-fires hooks and persisted values are authoritative.
//
// # Getting Started
//
// Register a node type, build a graph, and wire nodes together:
//
//	doubler := &flowgraph.Descriptor{
//		Name: "doubler",
//		Params: []flowgraph.ParamDesc{
//			{Name: "input", OnChangedExpr: "input * 2", ExprTarget: "affected"},
//			{Name: "affected"},
//		},
//	}
//	if err := flowgraph.RegisterType(doubler); err != nil {
//		log.Fatal(err)
//	}
//
//	g := flowgraph.New(flowgraph.WithName("demo"))
//	a, _ := g.AddNewNode("doubler", nil)
//	b, _ := g.AddNewNode("doubler", nil)
//
//	src, _ := a.Attribute("affected")
//	dst, _ := b.Attribute("input")
//	if _, err := g.AddEdge(src, dst); err != nil {
//		log.Fatal(err)
//	}
//
//	// Cascades through a's hook, the edge, and b's hook in one call.
//	_ = a.SetValue("input", 5)
//
// # Concurrency
//
// The engine is synchronous: a cascade runs as a single uninterrupted call
// stack on the mutating goroutine, and callers observe the graph only in a
// fully-settled state. A single mutex on the Graph serializes topology
// changes, live mutation, Save, and Load. Change hooks run with that lock
// held; nested SetValue calls made from inside a hook join the in-flight
// cascade rather than re-acquiring the lock.
//
// # Persistence
//
// Graph.Save and Load exchange a YAML document carrying every attribute's
// raw value and default flag plus the edge list. The store subpackage
// provides pluggable backends (filesystem, Redis, etcd) for keeping those
// documents by graph name.
package flowgraph
