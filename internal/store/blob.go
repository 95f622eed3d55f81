package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore abstracts binary object storage (profile pictures). The mobile
// clients only ever upload a blob and read back a URL, so the capability
// surface is deliberately small.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	URL(key string) string
}

// DiskBlobStore stores blobs on the local filesystem and serves them under a
// configured URL prefix.
type DiskBlobStore struct {
	dir     string
	baseURL string
}

func NewDiskBlobStore(dir, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob dir: %w", err)
	}
	return &DiskBlobStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskBlobStore) Put(ctx context.Context, key string, r io.Reader) error {
	key = sanitizeKey(key)
	if key == "" {
		return fmt.Errorf("empty blob key")
	}
	path := filepath.Join(s.dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob subdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

func (s *DiskBlobStore) URL(key string) string {
	return s.baseURL + "/" + sanitizeKey(key)
}

// Dir returns the backing directory (for mounting a file server).
func (s *DiskBlobStore) Dir() string { return s.dir }

func sanitizeKey(key string) string {
	key = strings.TrimLeft(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	return key
}
