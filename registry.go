package flowgraph

import (
	"sort"
	"sync"
)

// Types is a registry of node-type descriptors. Graphs resolve type names
// through a Types instance when constructing nodes and when loading
// persisted documents.
//
// Thread-safety: all methods are safe for concurrent use.
type Types struct {
	mu    sync.RWMutex
	types map[string]*Descriptor
}

// NewTypes creates an empty node-type registry.
func NewTypes() *Types {
	return &Types{types: make(map[string]*Descriptor)}
}

// DefaultTypes is the registry used by graphs that are not given their own
// via WithTypes.
var DefaultTypes = NewTypes()

// RegisterType registers a descriptor with the default registry.
func RegisterType(d *Descriptor) error { return DefaultTypes.Register(d) }

// UnregisterType removes a node type from the default registry.
func UnregisterType(name string) error { return DefaultTypes.Unregister(name) }

// Register validates and registers a node-type descriptor. Expression hooks
// are compiled here, so a malformed OnChangedExpr fails registration rather
// than a later cascade. Registering a duplicate type name is a structure
// error. The descriptor must not be mutated after registration.
func (t *Types) Register(d *Descriptor) error {
	if err := d.compile(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.types[d.Name]; exists {
		return structuref("node type %q already registered", d.Name)
	}
	t.types[d.Name] = d
	return nil
}

// Unregister removes a node type from the registry. Removing an unknown
// type is a structure error. Nodes already constructed from the type keep
// their descriptor reference.
func (t *Types) Unregister(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.types[name]; !exists {
		return structuref("unknown node type %q", name)
	}
	delete(t.types, name)
	return nil
}

// Lookup returns the descriptor registered under name.
func (t *Types) Lookup(name string) (*Descriptor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	d, ok := t.types[name]
	if !ok {
		return nil, structuref("unknown node type %q", name)
	}
	return d, nil
}

// Has reports whether a node type is registered.
func (t *Types) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.types[name]
	return ok
}

// Names returns the registered type names in sorted order.
func (t *Types) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.types))
	for name := range t.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
