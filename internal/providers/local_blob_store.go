package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidObjectPath = errors.New("invalid object path")

// LocalBlobStore keeps objects as files under <dir>/<bucket>/<path>. It backs
// the local signer when no cloud bucket is configured.
type LocalBlobStore struct {
	dir string
}

func NewLocalBlobStore(dir string) *LocalBlobStore {
	return &LocalBlobStore{dir: dir}
}

// resolve maps bucket/path to a file under dir and refuses anything that escapes it.
func (s *LocalBlobStore) resolve(bucket, path string) (string, error) {
	if bucket == "" || path == "" || strings.ContainsAny(bucket, `/\`) || bucket == ".." {
		return "", ErrInvalidObjectPath
	}
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, bucket, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Join(root, bucket)+string(filepath.Separator)) {
		return "", ErrInvalidObjectPath
	}
	return full, nil
}

// Put writes r to bucket/path, replacing any existing object.
func (s *LocalBlobStore) Put(_ context.Context, bucket, path string, r io.Reader) (int64, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("local blob: failed to create directory: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("local blob: failed to create %s/%s: %w", bucket, path, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(full)
		return 0, fmt.Errorf("local blob: failed to write %s/%s: %w", bucket, path, err)
	}
	return n, nil
}

// Open returns the object file; the caller closes it.
func (s *LocalBlobStore) Open(bucket, path string) (*os.File, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}
