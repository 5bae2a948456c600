// Package gateway implements board persistence backends: a JSONBin-style
// HTTP client and a document adapter over raw key/value stores (file, Redis,
// SQLite, memory).
package gateway

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when a key holds no document.
var ErrNotFound = errors.New("gateway: document not found")

// Store keeps opaque documents by key.
type Store interface {
	// Get returns the document stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, doc []byte) error
}
