package flowgraph

import (
	"strings"
	"testing"
)

func exprDoubler() *Descriptor {
	return &Descriptor{
		Name: "doubler",
		Params: []ParamDesc{
			{Name: "input", OnChangedExpr: "input * 2", ExprTarget: "affected"},
			{Name: "affected"},
		},
	}
}

func TestExprHookAssignsTarget(t *testing.T) {
	types := NewTypes()
	if err := types.Register(exprDoubler()); err != nil {
		t.Fatalf("register: %v", err)
	}
	g := New(WithTypes(types))
	n, err := g.AddNewNode("doubler", nil)
	if err != nil {
		t.Fatalf("add node: %v", err)
	}

	if err := n.SetValue("input", 10); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if v, _ := n.Value("affected"); v != 20 {
		t.Errorf("expected affected to be 20, got %d", v)
	}
}

func TestExprHookReadsSiblingAttributes(t *testing.T) {
	mixer := &Descriptor{
		Name: "mixer",
		Params: []ParamDesc{
			{Name: "a", OnChangedExpr: "a + b", ExprTarget: "sum"},
			{Name: "b", Default: 3},
			{Name: "sum"},
		},
	}
	types := NewTypes()
	if err := types.Register(mixer); err != nil {
		t.Fatalf("register: %v", err)
	}
	g := New(WithTypes(types))
	n, err := g.AddNewNode("mixer", nil)
	if err != nil {
		t.Fatalf("add node: %v", err)
	}

	if err := n.SetValue("a", 4); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if v, _ := n.Value("sum"); v != 7 {
		t.Errorf("expected sum to be 7, got %d", v)
	}
}

func TestExprHookCascadesAcrossEdges(t *testing.T) {
	types := NewTypes()
	if err := types.Register(exprDoubler()); err != nil {
		t.Fatalf("register: %v", err)
	}
	g := New(WithTypes(types))
	a, _ := g.AddNewNode("doubler", nil)
	b, _ := g.AddNewNode("doubler", nil)

	src, _ := a.Attribute("affected")
	dst, _ := b.Attribute("input")
	if _, err := g.AddEdge(src, dst); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	if err := a.SetValue("input", 5); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if v, _ := b.Value("affected"); v != 20 {
		t.Errorf("expected b.affected to be 20, got %d", v)
	}
}

func TestExprHookRegistrationErrors(t *testing.T) {
	tests := []struct {
		name string
		desc *Descriptor
		want string
	}{
		{
			name: "missing target",
			desc: &Descriptor{
				Name: "bad",
				Params: []ParamDesc{
					{Name: "in", OnChangedExpr: "in * 2"},
					{Name: "out"},
				},
			},
			want: "without ExprTarget",
		},
		{
			name: "self target",
			desc: &Descriptor{
				Name: "bad",
				Params: []ParamDesc{
					{Name: "in", OnChangedExpr: "in * 2", ExprTarget: "in"},
				},
			},
			want: "cannot target itself",
		},
		{
			name: "unknown target",
			desc: &Descriptor{
				Name: "bad",
				Params: []ParamDesc{
					{Name: "in", OnChangedExpr: "in * 2", ExprTarget: "ghost"},
					{Name: "out"},
				},
			},
			want: "not an attribute",
		},
		{
			name: "syntax error",
			desc: &Descriptor{
				Name: "bad",
				Params: []ParamDesc{
					{Name: "in", OnChangedExpr: "in **", ExprTarget: "out"},
					{Name: "out"},
				},
			},
			want: "compile",
		},
		{
			name: "unknown variable",
			desc: &Descriptor{
				Name: "bad",
				Params: []ParamDesc{
					{Name: "in", OnChangedExpr: "ghost * 2", ExprTarget: "out"},
					{Name: "out"},
				},
			},
			want: "compile",
		},
		{
			name: "non-int result",
			desc: &Descriptor{
				Name: "bad",
				Params: []ParamDesc{
					{Name: "in", OnChangedExpr: "in > 2", ExprTarget: "out"},
					{Name: "out"},
				},
			},
			want: "want int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTypes().Register(tt.desc)
			if err == nil {
				t.Fatal("expected registration to fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
