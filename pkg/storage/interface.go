package storage

import (
	"context"
	"io"
	"time"
)

// Storage abstracts where uploaded files (attachments, avatars) live.
type Storage interface {
	// Write stores content from the reader under the given key. The size
	// parameter is the expected content size (-1 if unknown).
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read retrieves content for the given key. The caller closes the
	// returned ReadCloser.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content with the given key. Missing keys are not
	// an error.
	Delete(ctx context.Context, key string) error

	// Exists checks whether content with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a URL under which clients can fetch the content.
	// Local storage returns a server-relative path; S3 returns a presigned
	// URL valid for the given duration.
	GetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
