package storage

import (
	"context"
	"errors"
	"io"
)

var ErrImageNotFound = errors.New("image not found")

// ImageStore keeps equipment images by name.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Open returns the image body and its size. Missing images yield ErrImageNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
	// Delete removes an image; deleting a missing image is not an error.
	Delete(ctx context.Context, name string) error
}
