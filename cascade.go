package flowgraph

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// setValue is the live entry point behind Attribute.SetValue and
// Node.SetValue. Top-level calls take the graph lock and open a cascade;
// calls made from inside a change hook observe the cascade flag and join
// the in-flight traversal on the same call stack.
//
// Assigning an attribute that has an incoming edge is rejected: while
// connected, its value is fully determined by the edge's source. The
// engine's own writes (connect, disconnect-reset, fan-out) do not go
// through this guard.
func (g *Graph) setValue(a *Attribute, v int) error {
	if g.cascading.Load() {
		if a.incoming != nil {
			return structuref("attribute %s has an incoming edge; its value is driven by %s",
				a.Path(), a.incoming.source.Path())
		}
		return g.propagate(a, v)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if a.incoming != nil {
		return structuref("attribute %s has an incoming edge; its value is driven by %s",
			a.Path(), a.incoming.source.Path())
	}

	end := g.span("flowgraph.SetValue",
		attribute.String("flowgraph.attribute", a.Path()),
		attribute.Int("flowgraph.value", v),
	)
	g.cascading.Store(true)
	defer g.cascading.Store(false)
	err := g.propagate(a, v)
	end(err)
	return err
}

// propagate applies one live write and runs its cascade: change detection,
// default-flag recompute, hook dispatch, then depth-first fan-out over the
// attribute's outgoing edges in edge-creation order. Hooks fire before
// fan-out, giving a deterministic pre-order traversal along any chain.
//
// A nil hook error continues the cascade; any failure aborts it fail-fast,
// leaving attributes visited so far with their new values. Caller holds
// the lock with the cascade flag set.
func (g *Graph) propagate(a *Attribute, v int) error {
	if v == a.value {
		return nil
	}
	old := a.value
	a.value = v
	a.isDefault = v == a.desc.Default
	g.logger.Debug("attribute changed",
		"graph", g.name, "attribute", a.Path(), "from", old, "to", v)

	if hook := a.node.desc.hook(a.name); hook != nil {
		if err := hook(a.node); err != nil {
			var he *HookError
			if errors.As(err, &he) {
				// Nested cascade already located the failure.
				return err
			}
			return &HookError{Node: a.node.name, Attr: a.name, Err: err}
		}
	}

	for _, e := range a.outgoing {
		if err := g.propagate(e.destination, v); err != nil {
			return err
		}
	}
	return nil
}

// span opens a root span for one top-level live mutation when a tracer is
// configured. The returned func ends the span, recording err if non-nil.
func (g *Graph) span(name string, kv ...attribute.KeyValue) func(error) {
	if g.tracer == nil {
		return func(error) {}
	}
	_, sp := g.tracer.Start(context.Background(), name, trace.WithAttributes(kv...))
	return func(err error) {
		if err != nil {
			sp.RecordError(err)
			sp.SetStatus(codes.Error, err.Error())
		}
		sp.End()
	}
}
