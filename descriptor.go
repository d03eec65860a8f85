package flowgraph

// ChangeHook is a per-attribute change callback. The propagation engine
// invokes it with the owning node whenever the bound attribute's value
// actually changes through the live path. The hook may read and write any
// attribute of that node via Node.Value and Node.SetValue; writes travel
// the same live path and cascade recursively under the engine's rules.
//
// A non-nil error aborts the remainder of the cascade and surfaces to the
// caller of the originating mutation as a HookError.
type ChangeHook func(*Node) error

// ParamDesc describes a single attribute of a node type: its name, its
// default value, and an optional change hook. Hooks can be bound either as
// Go callbacks (OnChanged) or as CEL expressions over the node's attribute
// names (OnChangedExpr with ExprTarget); a descriptor entry may use one
// form or the other, not both.
type ParamDesc struct {
	// Name is the attribute identifier, unique within the descriptor.
	Name string

	// Label is an optional human-readable display name.
	Label string

	// Description documents the attribute's purpose.
	Description string

	// Default is the schema default value. Attributes are created holding
	// this value, and disconnecting an attribute resets it to this value
	// through the live path.
	Default int

	// OnChanged, if set, is invoked whenever this attribute's value
	// changes through the live path.
	OnChanged ChangeHook

	// OnChangedExpr, if set, is a CEL expression over the descriptor's
	// attribute names (e.g. "input * 2"). It is compiled at registration
	// time; whenever this attribute changes, the expression is evaluated
	// against the node's current attribute values and the result is
	// live-assigned to ExprTarget.
	OnChangedExpr string

	// ExprTarget names the attribute that receives the result of
	// OnChangedExpr. It must name another attribute of the same
	// descriptor.
	ExprTarget string
}

// Descriptor is the schema of a node type: an ordered list of attribute
// descriptions with defaults and optional change-hook bindings. Descriptors
// are registered once with a Types registry, are read-only afterwards, and
// are shared across all node instances of the type.
type Descriptor struct {
	// Name is the node type identifier, unique within a registry.
	Name string

	// Params lists the type's attributes in declaration order. Nodes carry
	// their attributes in this order, and persistence preserves it.
	Params []ParamDesc

	// hooks maps attribute name to its effective change hook, built once
	// at registration. Expression hooks are compiled here so that invalid
	// expressions fail at RegisterType, not during a cascade.
	hooks map[string]ChangeHook
}

// compile validates the descriptor and builds its hook table. Called by
// Types.Register; the descriptor must not be mutated afterwards.
func (d *Descriptor) compile() error {
	if d.Name == "" {
		return structuref("descriptor has no type name")
	}
	if len(d.Params) == 0 {
		return structuref("node type %q declares no attributes", d.Name)
	}

	seen := make(map[string]struct{}, len(d.Params))
	for i := range d.Params {
		p := &d.Params[i]
		if p.Name == "" {
			return structuref("node type %q: attribute %d has no name", d.Name, i)
		}
		if _, dup := seen[p.Name]; dup {
			return structuref("node type %q: duplicate attribute %q", d.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	d.hooks = make(map[string]ChangeHook, len(d.Params))
	for i := range d.Params {
		p := &d.Params[i]
		switch {
		case p.OnChanged != nil && p.OnChangedExpr != "":
			return structuref("node type %q: attribute %q binds both OnChanged and OnChangedExpr", d.Name, p.Name)
		case p.OnChanged != nil:
			d.hooks[p.Name] = p.OnChanged
		case p.OnChangedExpr != "":
			hook, err := compileExprHook(d, p)
			if err != nil {
				return err
			}
			d.hooks[p.Name] = hook
		}
	}
	return nil
}

// param returns the descriptor entry for the named attribute, or nil.
func (d *Descriptor) param(name string) *ParamDesc {
	for i := range d.Params {
		if d.Params[i].Name == name {
			return &d.Params[i]
		}
	}
	return nil
}

// hook returns the effective change hook for the named attribute, or nil
// when the attribute has no hook bound.
func (d *Descriptor) hook(name string) ChangeHook {
	return d.hooks[name]
}
