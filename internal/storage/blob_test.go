package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBlobStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}

	path, err := s.Store([]byte("image bytes"), ".png")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(path, "/uploads/") || !strings.HasSuffix(path, ".png") {
		t.Fatalf("path = %q, want /uploads/<uuid>.png", path)
	}

	onDisk := filepath.Join(s.Dir(), strings.TrimPrefix(path, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "image bytes" {
		t.Fatalf("stored bytes = %q", data)
	}

	if err := s.Delete(path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("file still present after delete: %v", err)
	}
	// Deleting again is not an error.
	if err := s.Delete(path); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestDeleteRejectsTraversal(t *testing.T) {
	s, err := NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	if err := s.Delete("/uploads/../etc/passwd"); err == nil {
		t.Fatal("path traversal accepted")
	}
	if err := s.Delete("/elsewhere/file.png"); err == nil {
		t.Fatal("foreign prefix accepted")
	}
}
