package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSBlobSigner signs V4 URLs for objects in Google Cloud Storage. Logical
// buckets (avatars, certificates, documents) map to <prefix><bucket>.
type GCSBlobSigner struct {
	client       *storage.Client
	bucketPrefix string
	accessID     string
}

var _ BlobSigner = (*GCSBlobSigner)(nil)

func NewGCSBlobSigner(ctx context.Context, credentialsFile, accessID, bucketPrefix string) (*GCSBlobSigner, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs blob: failed in creating storage client: %w", err)
	}
	return &GCSBlobSigner{client: client, bucketPrefix: bucketPrefix, accessID: accessID}, nil
}

func (s *GCSBlobSigner) CreateSignedURL(_ context.Context, bucket, path string, ttl time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	}
	if s.accessID != "" {
		opts.GoogleAccessID = s.accessID
	}
	u, err := s.client.Bucket(s.bucketPrefix+bucket).SignedURL(path, opts)
	if err != nil {
		return "", fmt.Errorf("gcs blob: failed to sign %s/%s: %w", bucket, path, err)
	}
	return u, nil
}

// Close closes the GCS client.
func (s *GCSBlobSigner) Close() error {
	return s.client.Close()
}
