package flowgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayType forwards "in" to "out" unchanged and appends every hook firing
// to log, so tests can assert cascade ordering.
func relayType(name string, log *[]string) *Descriptor {
	return &Descriptor{
		Name: name,
		Params: []ParamDesc{
			{Name: "in", OnChanged: func(n *Node) error {
				*log = append(*log, n.Name())
				in, err := n.Value("in")
				if err != nil {
					return err
				}
				return n.SetValue("out", in)
			}},
			{Name: "out"},
		},
	}
}

func TestCascadeVisitsFanOutInEdgeCreationOrder(t *testing.T) {
	var log []string
	g := newTestGraph(t, relayType("relay", &log))
	a, _ := g.AddNewNode("relay", nil)
	b, _ := g.AddNewNode("relay", nil)
	c, _ := g.AddNewNode("relay", nil)

	_, err := g.AddEdges(
		EdgeSpec{attr(t, a, "out"), attr(t, b, "in")},
		EdgeSpec{attr(t, a, "out"), attr(t, c, "in")},
	)
	require.NoError(t, err)

	log = nil
	require.NoError(t, a.SetValue("in", 1))
	assert.Equal(t, []string{a.Name(), b.Name(), c.Name()}, log)
}

func TestCascadeOrderFollowsEdgeCreation(t *testing.T) {
	var log []string
	g := newTestGraph(t, relayType("relay", &log))
	a, _ := g.AddNewNode("relay", nil)
	b, _ := g.AddNewNode("relay", nil)
	c, _ := g.AddNewNode("relay", nil)

	// Same fan-out, opposite creation order.
	_, err := g.AddEdges(
		EdgeSpec{attr(t, a, "out"), attr(t, c, "in")},
		EdgeSpec{attr(t, a, "out"), attr(t, b, "in")},
	)
	require.NoError(t, err)

	log = nil
	require.NoError(t, a.SetValue("in", 1))
	assert.Equal(t, []string{a.Name(), c.Name(), b.Name()}, log)
}

func TestCascadeIsPreOrderAlongChain(t *testing.T) {
	var log []string
	g := newTestGraph(t, relayType("relay", &log))
	a, _ := g.AddNewNode("relay", nil)
	b, _ := g.AddNewNode("relay", nil)
	c, _ := g.AddNewNode("relay", nil)
	d, _ := g.AddNewNode("relay", nil)

	_, err := g.AddEdges(
		EdgeSpec{attr(t, a, "out"), attr(t, b, "in")},
		EdgeSpec{attr(t, b, "out"), attr(t, c, "in")},
		EdgeSpec{attr(t, c, "out"), attr(t, d, "in")},
	)
	require.NoError(t, err)

	log = nil
	require.NoError(t, a.SetValue("in", 42))

	// Each node's hook fires before its downstream fan-out is visited,
	// and the whole chain settles inside the one SetValue call.
	assert.Equal(t, []string{a.Name(), b.Name(), c.Name(), d.Name()}, log)
	assert.Equal(t, 42, value(t, d, "out"))
}

func TestDeepChainSettlesInOneCall(t *testing.T) {
	increment := &Descriptor{
		Name: "increment",
		Params: []ParamDesc{
			{Name: "in", OnChangedExpr: "in + 1", ExprTarget: "out"},
			{Name: "out"},
		},
	}
	g := newTestGraph(t, increment)

	const depth = 50
	prev, err := g.AddNewNode("increment", nil)
	require.NoError(t, err)
	first := prev
	for i := 1; i < depth; i++ {
		n, err := g.AddNewNode("increment", nil)
		require.NoError(t, err)
		_, err = g.AddEdge(attr(t, prev, "out"), attr(t, n, "in"))
		require.NoError(t, err)
		prev = n
	}

	// Node k settles at out == k+1, so the tail reads depth+1.
	require.NoError(t, first.SetValue("in", 1))
	assert.Equal(t, depth+1, value(t, prev, "out"))
}

func TestHookFailureAbortsCascade(t *testing.T) {
	boom := errors.New("boom")
	var log []string
	failing := &Descriptor{
		Name: "failing",
		Params: []ParamDesc{
			{Name: "in", OnChanged: func(n *Node) error {
				return boom
			}},
			{Name: "out"},
		},
	}
	g := newTestGraph(t, relayType("relay", &log), failing)
	a, _ := g.AddNewNode("relay", nil)
	b, _ := g.AddNewNode("failing", nil)
	c, _ := g.AddNewNode("relay", nil)

	_, err := g.AddEdges(
		EdgeSpec{attr(t, a, "out"), attr(t, b, "in")},
		EdgeSpec{attr(t, b, "out"), attr(t, c, "in")},
	)
	require.NoError(t, err)

	log = nil
	err = a.SetValue("in", 3)
	require.ErrorIs(t, err, ErrHook)
	require.ErrorIs(t, err, boom)

	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, b.Name(), he.Node)
	assert.Equal(t, "in", he.Attr)

	// Fail-fast: everything upstream of the failure kept its new value,
	// nothing past it was visited.
	assert.Equal(t, 3, value(t, a, "in"))
	assert.Equal(t, 3, value(t, a, "out"))
	assert.Equal(t, 3, value(t, b, "in"))
	assert.Equal(t, 0, value(t, c, "in"))
	assert.Equal(t, []string{a.Name()}, log)
}

func TestHookFailureSurfacesFromConnect(t *testing.T) {
	failing := &Descriptor{
		Name: "failing",
		Params: []ParamDesc{
			{Name: "in", OnChanged: func(n *Node) error {
				return fmt.Errorf("no thanks")
			}},
			{Name: "out"},
		},
	}
	g := newTestGraph(t, doublerType(nil), failing)
	a, _ := g.AddNewNode("doubler", map[string]int{"input": 1})
	b, _ := g.AddNewNode("failing", nil)

	_, err := g.AddEdge(attr(t, a, "input"), attr(t, b, "in"))
	require.ErrorIs(t, err, ErrHook)

	// The edge itself remains; only the cascade was aborted.
	assert.Len(t, g.Edges(), 1)
	assert.Equal(t, 1, value(t, b, "in"))
}

func TestHookWritingConnectedAttributeFails(t *testing.T) {
	// b's hook writes b.out, but b.out is driven by an incoming edge, so
	// the hook's write is rejected and surfaces as a hook failure.
	var log []string
	g := newTestGraph(t, relayType("relay", &log))
	a, _ := g.AddNewNode("relay", nil)
	b, _ := g.AddNewNode("relay", nil)

	_, err := g.AddEdge(attr(t, a, "out"), attr(t, b, "out"))
	require.NoError(t, err)

	err = b.SetValue("in", 1)
	require.ErrorIs(t, err, ErrHook)
	require.ErrorIs(t, errors.Unwrap(err), ErrStructure)
}
