package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage writes photos into a directory on disk. This is the default
// backend; the directory is created on construction.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(_ context.Context, originalFileName string, data []byte) (string, error) {
	path := filepath.Join(s.dir, objectName(originalFileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo %s: %w", path, err)
	}
	return path, nil
}
