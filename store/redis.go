package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// Prefix is prepended to every key as "<prefix>:<name>".
	// Default: "flowgraph"
	Prefix string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration
}

// Redis stores graph documents as Redis string keys under a prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed store and verifies connectivity with a
// ping.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = "flowgraph"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, prefix: opts.Prefix}, nil
}

func (s *Redis) key(name string) string {
	return s.prefix + ":" + name
}

// Put stores the document under "<prefix>:<name>".
func (s *Redis) Put(ctx context.Context, name string, doc []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(name), doc, 0).Err(); err != nil {
		return fmt.Errorf("failed to store graph %s: %w", name, err)
	}
	return nil
}

// Get returns the document stored under name.
func (s *Redis) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	doc, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get graph %s: %w", name, err)
	}
	return doc, nil
}

// List scans "<prefix>:*" and returns the stored graph names in sorted
// order.
func (s *Redis) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix+":"))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the document stored under name.
func (s *Redis) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	deleted, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", name, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Redis) Close() error {
	return s.client.Close()
}
