package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalFileStorage implements the Storage interface for local filesystem
type LocalFileStorage struct {
	baseDir string
}

// NewLocalFileStorage creates a new local file storage instance. Relative
// paths are resolved against baseDir; an empty baseDir means the working
// directory.
func NewLocalFileStorage(baseDir string) *LocalFileStorage {
	return &LocalFileStorage{baseDir: baseDir}
}

func (s *LocalFileStorage) resolve(path string) string {
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// GetWriter creates or truncates the file at path, creating parent
// directories as needed.
func (s *LocalFileStorage) GetWriter(_ context.Context, path string) (io.WriteCloser, error) {
	path = s.resolve(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.Create(path)
}

// FileExists checks if a file exists
func (s *LocalFileStorage) FileExists(_ context.Context, path string) bool {
	_, err := os.Stat(s.resolve(path))
	return err == nil
}

func (s *LocalFileStorage) Close() error {
	return nil
}
