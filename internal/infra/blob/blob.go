// Package blob is the opaque snapshot persistence boundary: one
// document per namespace, written whole after every mutation and read
// once at startup. The content is never inspected here.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound means no snapshot has been written for the namespace
// yet. Startup treats it as "fresh install", not a failure.
var ErrNotFound = errors.New("blob: snapshot not found")

// Store persists one opaque document under a single namespace.
type Store interface {
	// Load returns the current document or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the document atomically.
	Save(ctx context.Context, doc []byte) error
	Close()
}
