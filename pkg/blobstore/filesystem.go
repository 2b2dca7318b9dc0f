package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemStore persists blobs as files under a base directory.
type FilesystemStore struct {
	baseDir string
}

// NewFilesystemStore ensures the base directory exists and returns a handle.
func NewFilesystemStore(baseDir string) (*FilesystemStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FilesystemStore{baseDir: baseDir}, nil
}

// Load reads the named blob. A missing file is reported as absent, not an error.
func (s *FilesystemStore) Load(_ context.Context, name string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.resolve(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, true, nil
}

// Save overwrites the named blob in full.
func (s *FilesystemStore) Save(_ context.Context, name string, data []byte) error {
	path := s.resolve(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	return nil
}

func (s *FilesystemStore) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}
