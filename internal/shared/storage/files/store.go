// Package files provides durable binary storage for uploaded documents.
package files

import (
	"context"
	"io"
)

// SavedFile describes a file that was written to the store.
type SavedFile struct {
	Path     string // storage path, recorded in the document's metadata
	Size     int64
	MimeType string // sniffed from content, not the client's declaration
}

// Store defines the contract for saving and retrieving uploaded files.
// Remove reports fs.ErrNotExist for an already-missing file; callers decide
// whether that matters.
type Store interface {
	Save(ctx context.Context, field, originalName string, r io.Reader) (SavedFile, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
