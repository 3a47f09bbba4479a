// Package store provides the key-value stores the application persists to.
// Two scopes exist: a small settings store and a larger local cache store.
// Both are addressed by whole keys; no partial-key fetch is supported.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when a key has no value
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal key-value store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Backend       string // "file", "sqlite", "redis" or "memory"
	Dir           string // Directory for file and sqlite backends
	Name          string // Scope name, e.g. "settings" or "cache"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the store described by cfg
func Open(cfg Config) (Store, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("store name is required")
	}

	switch cfg.Backend {
	case "", "file":
		return NewFileStore(filepath.Join(cfg.Dir, cfg.Name))
	case "sqlite":
		return NewSQLiteStore(filepath.Join(cfg.Dir, cfg.Name+".db"))
	case "redis":
		return NewRedisStore(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Name + ":",
		}), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
