// Package store persists string values under fixed keys. The task set is
// stored as a single JSON blob; the store knows nothing about its shape.
package store

import (
	"context"

	"github.com/nhle/do-it-later/internal/model"
)

// Well-known keys.
const (
	KeyData  = "do-it-later-data"
	KeyTheme = "do-it-later-theme"
)

// ErrNotFound is returned by Get for a key that has never been written.
var ErrNotFound = model.ErrNotFound

// Store defines the persistence interface used by the session layer.
type Store interface {
	// Get returns the value stored under key, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put creates or replaces the value stored under key.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// Snapshotter is implemented by stores that can keep earlier values of a
// key, so a destructive import can be undone.
type Snapshotter interface {
	Snapshot(ctx context.Context, key string) error
	Restore(ctx context.Context, key string) error
}

var (
	_ Store       = (*SQLiteStore)(nil)
	_ Snapshotter = (*SQLiteStore)(nil)
	_ Store       = (*MemoryStore)(nil)
	_ Snapshotter = (*MemoryStore)(nil)
)
