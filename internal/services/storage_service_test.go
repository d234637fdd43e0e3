package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlobRef(t *testing.T) {
	cases := []struct {
		name       string
		ref        string
		bucket     string
		path       string
		recognised bool
	}{
		{"public url", "https://x.supabase.co/storage/v1/object/public/avatars/u1/me.png", "avatars", "u1/me.png", true},
		{"signed url", "https://x/storage/v1/object/sign/certificates/c%201.pdf?token=abc", "certificates", "c 1.pdf", true},
		{"bare ref", "documents/minutes/2024-03.pdf", "documents", "minutes/2024-03.pdf", true},
		{"unknown bucket", "photos/u1.png", "", "", false},
		{"plain url", "https://example.com/file.pdf", "", "", false},
		{"single segment", "avatars", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bucket, path, ok := ParseBlobRef(tc.ref)
			assert.Equal(t, tc.recognised, ok)
			assert.Equal(t, tc.bucket, bucket)
			assert.Equal(t, tc.path, path)
		})
	}
}

func TestStorageResolve(t *testing.T) {
	ctx := context.Background()
	signer := &mockBlobSigner{}
	storage := NewStorageService(signer)

	assert.Equal(t, "", storage.Resolve(ctx, ""))
	assert.Equal(t, "https://example.com/a.pdf", storage.Resolve(ctx, "https://example.com/a.pdf"))
	assert.Equal(t, "https://blobs.test/documents/a.pdf?ttl=3600", storage.Resolve(ctx, "documents/a.pdf"))

	signer.createSignedURLFunc = func(context.Context, string, string, time.Duration) (string, error) {
		return "", errors.New("bucket offline")
	}
	assert.Equal(t, "documents/a.pdf", storage.Resolve(ctx, "documents/a.pdf"))
}

func TestStorageSign(t *testing.T) {
	ctx := context.Background()
	storage := NewStorageService(&mockBlobSigner{})

	_, err := storage.Sign(ctx, auth.Caller{}, dtos.SignURLRequest{Bucket: "avatars", Path: "a.png"})
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)

	_, err = storage.Sign(ctx, memberCaller("u1"), dtos.SignURLRequest{Bucket: "photos", Path: "a.png"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	out, err := storage.Sign(ctx, memberCaller("u1"), dtos.SignURLRequest{Bucket: "avatars", Path: "/u1/a.png", ExpiresIn: 60})
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/avatars/u1/a.png?ttl=60", out.SignedURL)
	assert.Equal(t, 60, out.ExpiresIn)
}
