// Package storage implements the local blob store for uploaded
// files (poster images, payment proofs).  Callers keep only the
// returned path string; the bytes live on disk under the public
// uploads directory so the HTTP layer can serve them statically.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore writes uploads to a directory and addresses them by a
// URL-style path like "/uploads/<uuid>.png".
type BlobStore struct {
	dir    string // filesystem directory holding the files
	prefix string // public path prefix stored in the database
}

// NewBlobStore creates the uploads directory if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &BlobStore{dir: dir, prefix: "/uploads"}, nil
}

// Store writes data under a fresh uuid name with the suggested
// extension and returns the public path to record.
func (s *BlobStore) Store(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	name := uuid.New().String()
	if ext != "" {
		name = name + "." + ext
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.prefix + "/" + name, nil
}

// Delete removes a previously stored blob.  A missing file is not
// an error; the record pointing at it is already gone or going.
func (s *BlobStore) Delete(path string) error {
	name := strings.TrimPrefix(path, s.prefix+"/")
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid blob path: %q", path)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the filesystem directory, for static file serving.
func (s *BlobStore) Dir() string { return s.dir }
