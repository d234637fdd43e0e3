package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/models/dtos"
	"bsg-portal/registry/internal/providers"
)

const DefaultSignedURLTTL = constants.DefaultSignedURLTTLSeconds * time.Second

// Buckets that may be referenced by a bare "<bucket>/<path>" string.
var knownBuckets = map[string]bool{"avatars": true, "certificates": true, "documents": true}

var (
	publicObjectRe = regexp.MustCompile(`/storage/v1/object/public/([^/]+)/(.+)$`)
	signedObjectRe = regexp.MustCompile(`/storage/v1/object/sign/([^/]+)/(.+?)\?`)
)

// StorageService turns stored blob references into short-lived URLs.
type StorageService struct {
	signer providers.BlobSigner
}

func NewStorageService(signer providers.BlobSigner) *StorageService {
	return &StorageService{signer: signer}
}

func (s *StorageService) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	bucket = strings.TrimSpace(bucket)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if bucket == "" || path == "" {
		return "", apperr.Validation("bucket and path are required")
	}
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	u, err := s.signer.CreateSignedURL(ctx, bucket, path, ttl)
	if err != nil {
		return "", apperr.Backend("sign blob url", err)
	}
	return u, nil
}

// Resolve re-signs a stored reference. Unrecognised references and signing
// failures yield the reference unchanged.
func (s *StorageService) Resolve(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	bucket, path, ok := ParseBlobRef(ref)
	if !ok {
		return ref
	}
	u, err := s.SignedURL(ctx, bucket, path, DefaultSignedURLTTL)
	if err != nil {
		logging.Warn("Failed to sign blob reference", "bucket", bucket, "path", path, "error", err)
		return ref
	}
	return u
}

func (s *StorageService) resolvePtr(ctx context.Context, ref *string) *string {
	if ref == nil {
		return nil
	}
	out := s.Resolve(ctx, *ref)
	return &out
}

// ParseBlobRef extracts bucket and object path from a public or signed storage
// URL, or from a bare path whose first segment is a known bucket.
func ParseBlobRef(ref string) (bucket, path string, ok bool) {
	if m := publicObjectRe.FindStringSubmatch(ref); m != nil {
		return m[1], unescapePath(m[2]), true
	}
	if m := signedObjectRe.FindStringSubmatch(ref); m != nil {
		return m[1], unescapePath(m[2]), true
	}
	parts := strings.Split(ref, "/")
	if len(parts) >= 2 && knownBuckets[parts[0]] {
		return parts[0], strings.Join(parts[1:], "/"), true
	}
	return "", "", false
}

func unescapePath(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}

// Sign issues a signed URL for an explicit bucket/path on behalf of a signed-in caller.
func (s *StorageService) Sign(ctx context.Context, caller auth.Caller, req dtos.SignURLRequest) (*dtos.SignedURLResponse, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	ttl := DefaultSignedURLTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Second
	}
	u, err := s.SignedURL(ctx, req.Bucket, req.Path, ttl)
	if err != nil {
		return nil, err
	}
	return &dtos.SignedURLResponse{SignedURL: u, ExpiresIn: int(ttl.Seconds())}, nil
}

// IsKnownBucket reports whether bucket is one of the logical blob buckets.
func IsKnownBucket(bucket string) bool { return knownBuckets[bucket] }
