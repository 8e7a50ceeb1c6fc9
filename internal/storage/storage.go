// Package storage keeps the encoded quiz record on disk, in SQLite or in
// Redis. Every backend overwrites a single record; none keeps history.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// Backend is a place to keep the quiz record.
type Backend interface {
	// Load returns the stored record, or nil, nil if none exists yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	// Check reports whether the backend is reachable.
	Check(ctx context.Context) error
	Close() error
}

type Options struct {
	Kind     string
	Dir      string
	RedisURL string
	RedisKey string
}

// Open returns the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile, "":
		return NewFileStore(filepath.Join(opts.Dir, stateFileName)), nil
	case KindSQLite:
		return OpenSQLite(ctx, filepath.Join(opts.Dir, sqliteFileName))
	case KindRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.RedisKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}
