package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".yaml"

// File stores graph documents as files in a single directory, one
// "<name>.yaml" per graph.
type File struct {
	dir string
}

// NewFile creates a file store rooted at dir, creating the directory if
// needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *File) Dir() string { return s.dir }

func (s *File) path(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("graph name %q cannot contain path separators", name)
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Put writes the document to "<dir>/<name>.yaml".
func (s *File) Put(_ context.Context, name string, doc []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write graph document: %w", err)
	}
	return nil
}

// Get reads the document stored under name.
func (s *File) Get(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	doc, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read graph document: %w", err)
	}
	return doc, nil
}

// List returns the stored graph names in sorted order.
func (s *File) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list store directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the document stored under name.
func (s *File) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("delete graph document: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *File) Close() error { return nil }
