package storage

import (
	"context"
	"fitnote/planner/internal/repository"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Presigner hands out temporary download links for stored documents.
type Presigner interface {
	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for the document stored under key, straight from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ObjectStore is a key-value store kept in an object storage bucket.
type ObjectStore interface {
	repository.KeyValueStore
	Presigner
}
