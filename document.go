package flowgraph

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is the graph document format version written by Save.
// Load accepts exactly this version; there is no migration logic.
const DocumentVersion = 1

// document is the persisted form of a graph: raw attribute state per node
// plus the edge list, everything in creation order so that a reloaded graph
// reproduces the original cascade ordering.
type document struct {
	Version int       `yaml:"version"`
	Name    string    `yaml:"name,omitempty"`
	UID     string    `yaml:"uid,omitempty"`
	Nodes   []nodeDoc `yaml:"nodes"`
	Edges   []edgeDoc `yaml:"edges,omitempty"`
}

type nodeDoc struct {
	Name       string    `yaml:"name"`
	Type       string    `yaml:"type"`
	Attributes []attrDoc `yaml:"attributes"`
}

type attrDoc struct {
	Name      string `yaml:"name"`
	Value     int    `yaml:"value"`
	IsDefault bool   `yaml:"is_default"`
}

// edgeDoc references attributes by their "node.attribute" paths.
type edgeDoc struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// Marshal serializes the graph as a YAML document: per attribute its raw
// value and default flag, per edge its endpoint paths. Marshal never
// invokes the propagation engine.
func (g *Graph) Marshal() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := document{
		Version: DocumentVersion,
		Name:    g.name,
		UID:     g.uid,
		Nodes:   make([]nodeDoc, 0, len(g.order)),
		Edges:   make([]edgeDoc, 0, len(g.edges)),
	}
	for _, n := range g.order {
		nd := nodeDoc{
			Name:       n.name,
			Type:       n.desc.Name,
			Attributes: make([]attrDoc, 0, len(n.order)),
		}
		for _, a := range n.order {
			nd.Attributes = append(nd.Attributes, attrDoc{
				Name:      a.name,
				Value:     a.value,
				IsDefault: a.isDefault,
			})
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, edgeDoc{
			Source:      e.source.Path(),
			Destination: e.destination.Path(),
		})
	}
	return yaml.Marshal(&doc)
}

// Save writes the graph document to w. See Marshal.
func (g *Graph) Save(w io.Writer) error {
	data, err := g.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load reads a graph document from r and reconstructs the graph. See
// Unmarshal for the bypass guarantees.
func Load(r io.Reader, opts ...Option) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, persistf("read document: %v", err)
	}
	return Unmarshal(data, opts...)
}

// Unmarshal reconstructs a graph from a document produced by Marshal.
//
// Nodes are bypass-initialized from their descriptor defaults and then
// bypass-overwritten with the persisted value and default flag of every
// attribute; the persisted flag is authoritative and is not recomputed.
// Edges are inserted structurally, without AddEdge and without any live
// write. No hook ever fires during a load, and a connected attribute keeps
// exactly its persisted value even when that value disagrees with what
// live propagation from its source would produce.
//
// A malformed or inconsistent document (unknown node type, duplicate node
// name, dangling or duplicate-destination edge, edge cycle) surfaces as
// ErrPersistence and no partial graph is returned.
func Unmarshal(data []byte, opts ...Option) (*Graph, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, persistf("decode document: %v", err)
	}
	if doc.Version != DocumentVersion {
		return nil, persistf("unsupported document version %d", doc.Version)
	}

	g := New(opts...)
	g.name = doc.Name
	if doc.UID != "" {
		g.uid = doc.UID
	}

	for _, nd := range doc.Nodes {
		if nd.Name == "" {
			return nil, persistf("node of type %q has no name", nd.Type)
		}
		if _, dup := g.nodes[nd.Name]; dup {
			return nil, persistf("duplicate node name %q", nd.Name)
		}
		d, err := g.types.Lookup(nd.Type)
		if err != nil {
			return nil, persistf("node %q: unknown node type %q", nd.Name, nd.Type)
		}
		n, err := newNode(g, nd.Name, d, nil)
		if err != nil {
			return nil, persistf("node %q: %v", nd.Name, err)
		}
		for _, ad := range nd.Attributes {
			a, ok := n.attrs[ad.Name]
			if !ok {
				return nil, persistf("node %q of type %q has no attribute %q", nd.Name, nd.Type, ad.Name)
			}
			a.setRaw(ad.Value, ad.IsDefault)
		}
		g.nodes[n.name] = n
		g.order = append(g.order, n)
	}

	for _, ed := range doc.Edges {
		src, err := g.attrByPath(ed.Source)
		if err != nil {
			return nil, err
		}
		dst, err := g.attrByPath(ed.Destination)
		if err != nil {
			return nil, err
		}
		if dst.incoming != nil {
			return nil, persistf("attribute %s has two incoming edges", dst.Path())
		}
		e := &Edge{source: src, destination: dst}
		g.edges = append(g.edges, e)
		src.outgoing = append(src.outgoing, e)
		dst.incoming = e
	}

	if g.edgesFormCycle() {
		return nil, persistf("edges form a cycle")
	}

	g.logger.Debug("graph loaded",
		"graph", g.name, "nodes", len(g.order), "edges", len(g.edges))
	return g, nil
}

// attrByPath resolves a persisted "node.attribute" reference.
func (g *Graph) attrByPath(path string) (*Attribute, error) {
	nodeName, attrName, ok := strings.Cut(path, ".")
	if !ok || nodeName == "" || attrName == "" {
		return nil, persistf("malformed attribute path %q", path)
	}
	n, exists := g.nodes[nodeName]
	if !exists {
		return nil, persistf("edge references unknown node %q", nodeName)
	}
	a, exists := n.attrs[attrName]
	if !exists {
		return nil, persistf("edge references unknown attribute %q of node %q", attrName, nodeName)
	}
	return a, nil
}

// edgesFormCycle checks the loaded edge relation with a Kahn-style count.
// AddEdge rejects cycles up front; this guards against hand-edited
// documents wiring one.
func (g *Graph) edgesFormCycle() bool {
	indegree := make(map[*Attribute]int)
	for _, e := range g.edges {
		indegree[e.destination]++
		if _, seen := indegree[e.source]; !seen {
			indegree[e.source] = 0
		}
	}

	queue := make([]*Attribute, 0, len(indegree))
	for a, deg := range indegree {
		if deg == 0 {
			queue = append(queue, a)
		}
	}

	visited := 0
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		visited++
		for _, e := range a.outgoing {
			indegree[e.destination]--
			if indegree[e.destination] == 0 {
				queue = append(queue, e.destination)
			}
		}
	}
	return visited != len(indegree)
}
