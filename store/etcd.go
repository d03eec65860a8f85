package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"sort"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdConfig configures the etcd-backed store.
type EtcdConfig struct {
	// Endpoints lists the etcd cluster endpoints.
	Endpoints []string

	// Namespace is the key prefix; documents live under
	// "/<namespace>/graphs/<name>". Default: "flowgraph"
	Namespace string

	// DialTimeout is the maximum time to wait for connection
	// establishment. Default: 5s
	DialTimeout time.Duration

	// TLS configuration for secure connections
	TLS *tls.Config
}

// Etcd stores graph documents as etcd keys under a namespace.
type Etcd struct {
	client    *clientv3.Client
	namespace string
}

// NewEtcd creates an etcd-backed store.
func NewEtcd(cfg EtcdConfig) (*Etcd, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "flowgraph"
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
		TLS:         cfg.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	return &Etcd{client: cli, namespace: namespace}, nil
}

func (s *Etcd) keyPrefix() string {
	return "/" + s.namespace + "/graphs/"
}

func (s *Etcd) key(name string) string {
	return s.keyPrefix() + name
}

// Put stores the document under the namespaced key for name.
func (s *Etcd) Put(ctx context.Context, name string, doc []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, err := s.client.Put(ctx, s.key(name), string(doc)); err != nil {
		return fmt.Errorf("failed to store graph %s: %w", name, err)
	}
	return nil
}

// Get returns the document stored under name.
func (s *Etcd) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	resp, err := s.client.Get(ctx, s.key(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get graph %s: %w", name, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return resp.Kvs[0].Value, nil
}

// List returns the stored graph names in sorted order.
func (s *Etcd) List(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.keyPrefix(),
		clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	names := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		names = append(names, strings.TrimPrefix(string(kv.Key), s.keyPrefix()))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the document stored under name.
func (s *Etcd) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	resp, err := s.client.Delete(ctx, s.key(name))
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", name, err)
	}
	if resp.Deleted == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Close closes the etcd connection.
func (s *Etcd) Close() error {
	return s.client.Close()
}
