package repository

import (
	"context"
	"time"
)

// ObjectStorage defines the interface for poster artwork storage.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// PresignedUploadURL creates a presigned URL for direct client upload.
	// key is the object path within the bucket (e.g., "posters/{movie_id}/cover.jpg").
	PresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// PresignedDownloadURL creates a presigned URL for downloading an object.
	PresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Delete removes an object from the storage.
	Delete(ctx context.Context, key string) error
}
