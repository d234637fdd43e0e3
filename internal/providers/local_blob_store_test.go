package providers

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_PutAndOpen(t *testing.T) {
	store := NewLocalBlobStore(t.TempDir())

	n, err := store.Put(context.Background(), "avatars", "u1/photo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)

	f, err := store.Open("avatars", "u1/photo.png")
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
}

func TestLocalBlobStore_RejectsEscapingPaths(t *testing.T) {
	store := NewLocalBlobStore(t.TempDir())

	for _, tc := range []struct{ bucket, path string }{
		{"avatars", "../documents/secret.pdf"},
		{"avatars", "../../etc/passwd"},
		{"..", "x"},
		{"a/b", "x"},
		{"avatars", ""},
	} {
		_, err := store.Put(context.Background(), tc.bucket, tc.path, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidObjectPath, "%s/%s", tc.bucket, tc.path)
	}
}
