package storage

import (
	"context"
	"io"
)

// UploadResult описывает сохранённый объект.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object-storage seam used for tournament badge artwork.
// Keys are chosen by the caller; implementations decide where the bytes land
// and how they are addressed publicly.
type FileUploader interface {
	// Upload stores the reader's contents under key and returns where the
	// object ended up.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetPublicURL maps a key to its browser-reachable URL.
	GetPublicURL(key string) string
}
