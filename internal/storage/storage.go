// Package storage persists uploaded files under caller-chosen names and
// returns the public reference for each stored file.
package storage

import (
	"context"
	"io"
)

// FileStore writes files without ever replacing an existing one.
type FileStore interface {
	// Save stores r under name and returns its public reference. It fails
	// with common.ErrFileExists if name is taken.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Remove deletes a file previously returned by Save.
	Remove(ctx context.Context, name string) error
}
