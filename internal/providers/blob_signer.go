package providers

import (
	"context"
	"time"
)

// BlobSigner defines the contract for the external blob store
type BlobSigner interface {
	// CreateSignedURL returns a URL granting read access to bucket/path for ttl
	CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}
