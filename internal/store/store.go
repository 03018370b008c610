// Package store provides the durable cache mapping canonical keywords to
// image URLs. Backends share exact-match get and upsert put semantics;
// the resolver receives a Store at construction time and never touches a
// backend directly.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no entry exists for a keyword.
var ErrNotFound = errors.New("cache entry not found")

// Store is a durable keyword -> image URL mapping. Get is exact-match only.
// Put has upsert semantics: it inserts a missing entry and overwrites an
// existing one (last-write-wins). Implementations must tolerate concurrent
// reads and concurrent writes to different keys.
type Store interface {
	Get(ctx context.Context, keyword string) (string, error)
	Put(ctx context.Context, keyword, imageURL string) error
	Ping(ctx context.Context) error
	Close() error
}

// Counter is implemented by backends that can report how many entries they
// hold. Used by the metrics collector; optional because the Redis backend
// cannot count cheaply.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config selects and configures a cache store backend.
type Config struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
	RedisURL    string
}

// New creates the configured backend and runs its migrations where the
// backend has a schema.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return NewSQLite(ctx, cfg.SQLitePath)
	case BackendPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL)
	case BackendRedis:
		return NewRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
