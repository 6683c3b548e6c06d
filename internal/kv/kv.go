// Package kv defines the string-keyed slot port that habit persistence
// writes through, plus in-memory and file-backed implementations.
//
// Implementations:
//   - Memory: map-backed, for tests and ephemeral sessions
//   - File: one file per key in a data directory, replaced atomically
//
// The SQLite implementation lives in internal/store.
package kv

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys a backend cannot address.
var ErrInvalidKey = errors.New("invalid key")

// Port is a minimal key-value store. Get reports ok=false for an absent
// key; that is not an error. Delete of an absent key succeeds.
type Port interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var (
	_ Port = (*Memory)(nil)
	_ Port = (*File)(nil)
)
