package storage

import (
	"context"
	"io"
)

// Storage defines the interface for the backends an output artifact can be
// written to. Paths are relative to the backend: a file path for local
// storage, an object key for buckets.
type Storage interface {
	GetWriter(ctx context.Context, path string) (io.WriteCloser, error)

	FileExists(ctx context.Context, path string) bool

	Close() error
}
