package port

import (
	"context"
	"io"
)

// UploadInput carries the data needed to store an object.
type UploadInput struct {
	Key         string
	ContentType string
	Body        io.Reader
}

// ObjectStorage abstracts blob storage for raw uploaded files.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (location string, err error)
	Delete(ctx context.Context, key string) error
}
