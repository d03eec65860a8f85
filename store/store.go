// Package store provides pluggable persistence backends for graph
// documents produced by flowgraph.Marshal.
//
// A Store keeps opaque documents keyed by graph name; it never interprets
// graph semantics, so the bypass guarantees of flowgraph.Load hold
// regardless of backend. Three implementations are provided:
//
//   - File: a directory of YAML files, one per graph
//   - Redis: keys under a configurable prefix
//   - Etcd: keys under a namespace
package store

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no document is stored under the given name.
// All backends return it from Get and Delete for missing names, so callers
// can check with errors.Is independent of the backend in use.
var ErrNotFound = errors.New("graph document not found")

// Store keeps graph documents by name.
//
// Thread-safety: implementations must be safe for concurrent use.
type Store interface {
	// Put stores a document under the given graph name, replacing any
	// previous document with that name.
	Put(ctx context.Context, name string, doc []byte) error

	// Get returns the document stored under the given graph name.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all stored documents in sorted order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the document stored under the given graph name.
	// Returns ErrNotFound if no document exists.
	Delete(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}

// validName rejects names that cannot serve as a storage key.
func validName(name string) error {
	if name == "" {
		return errors.New("graph name cannot be empty")
	}
	return nil
}
