package flowgraph_test

import (
	"fmt"
	"log"

	"github.com/flowgraph-io/flowgraph"
)

// Example wires two doubler nodes into a chain and shows a single
// assignment cascading through hooks and edges.
func Example() {
	types := flowgraph.NewTypes()
	err := types.Register(&flowgraph.Descriptor{
		Name: "doubler",
		Params: []flowgraph.ParamDesc{
			{Name: "input", OnChangedExpr: "input * 2", ExprTarget: "affected"},
			{Name: "affected"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	g := flowgraph.New(flowgraph.WithTypes(types), flowgraph.WithName("example"))
	a, _ := g.AddNewNode("doubler", nil)
	b, _ := g.AddNewNode("doubler", nil)

	src, _ := a.Attribute("affected")
	dst, _ := b.Attribute("input")
	if _, err := g.AddEdge(src, dst); err != nil {
		log.Fatal(err)
	}

	if err := a.SetValue("input", 5); err != nil {
		log.Fatal(err)
	}

	av, _ := a.Value("affected")
	bv, _ := b.Value("affected")
	fmt.Println(a.Name(), "affected:", av)
	fmt.Println(b.Name(), "affected:", bv)
	// Output:
	// doubler_1 affected: 10
	// doubler_2 affected: 20
}
