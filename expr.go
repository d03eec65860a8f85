package flowgraph

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// compileExprHook turns a ParamDesc's OnChangedExpr binding into a
// ChangeHook. Every attribute of the descriptor is declared to CEL as an
// int variable, the expression must produce an int, and the result is
// live-assigned to the target attribute through Node.SetValue, so it
// cascades like any hook-driven write.
//
// Compilation happens once, at type registration; evaluation happens on
// every real change of the bound attribute.
func compileExprHook(d *Descriptor, p *ParamDesc) (ChangeHook, error) {
	target := p.ExprTarget
	switch {
	case target == "":
		return nil, structuref("node type %q: attribute %q binds OnChangedExpr without ExprTarget",
			d.Name, p.Name)
	case target == p.Name:
		return nil, structuref("node type %q: attribute %q cannot target itself with OnChangedExpr",
			d.Name, p.Name)
	case d.param(target) == nil:
		return nil, structuref("node type %q: ExprTarget %q is not an attribute of the type",
			d.Name, target)
	}

	decls := make([]cel.EnvOption, 0, len(d.Params))
	for i := range d.Params {
		decls = append(decls, cel.Variable(d.Params[i].Name, cel.IntType))
	}
	env, err := cel.NewEnv(decls...)
	if err != nil {
		return nil, fmt.Errorf("create expression environment for node type %q: %w", d.Name, err)
	}

	ast, iss := env.Compile(p.OnChangedExpr)
	if iss.Err() != nil {
		return nil, structuref("node type %q: attribute %q: compile %q: %v",
			d.Name, p.Name, p.OnChangedExpr, iss.Err())
	}
	if ast.OutputType() != cel.IntType {
		return nil, structuref("node type %q: attribute %q: expression %q yields %s, want int",
			d.Name, p.Name, p.OnChangedExpr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build expression program for node type %q: %w", d.Name, err)
	}

	expr := p.OnChangedExpr
	return func(n *Node) error {
		activation := make(map[string]any, len(n.order))
		for _, a := range n.order {
			activation[a.name] = int64(a.value)
		}
		out, _, err := prg.Eval(activation)
		if err != nil {
			return fmt.Errorf("evaluate %q: %w", expr, err)
		}
		result, ok := out.Value().(int64)
		if !ok {
			return fmt.Errorf("evaluate %q: result %v is not an int", expr, out.Value())
		}
		return n.SetValue(target, int(result))
	}, nil
}
