package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"bsg-portal/registry/internal/common"
)

// LocalBlobSigner signs URLs for files served from the local blob directory.
// URLs use the same /storage/v1/object/sign/<bucket>/<path> shape that the
// resolver parses, so stored signed URLs can be re-signed later.
type LocalBlobSigner struct {
	baseURL string
	signer  *common.URLSignerService
}

var _ BlobSigner = (*LocalBlobSigner)(nil)

func NewLocalBlobSigner(baseURL string, signer *common.URLSignerService) *LocalBlobSigner {
	return &LocalBlobSigner{baseURL: strings.TrimRight(baseURL, "/"), signer: signer}
}

func (s *LocalBlobSigner) CreateSignedURL(_ context.Context, bucket, path string, ttl time.Duration) (string, error) {
	token, _, err := s.signer.Sign(bucket, path, ttl)
	if err != nil {
		return "", err
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return s.baseURL + "/storage/v1/object/sign/" + url.PathEscape(bucket) + "/" +
		strings.Join(parts, "/") + "?token=" + url.QueryEscape(token), nil
}
