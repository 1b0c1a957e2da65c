package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

// LocalStorage stores objects on the local filesystem. This is the default
// backend: media lands under the upload dir and rendered documents under the
// output dir, both created at startup.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorageAt roots the backend at an explicit directory
func NewLocalStorageAt(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// NewLocalStorage prepares the upload, output and temp directories
func NewLocalStorage(cfg *config.Config) (*LocalStorage, error) {
	s := &LocalStorage{baseDir: "."}

	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.OutputDir, cfg.Storage.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(s.abs(dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}

	return s, nil
}

func (s *LocalStorage) abs(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

// Save writes the reader under key and returns the key
func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader, size int64) (string, error) {
	path := s.abs(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	// Write to a temp name first so readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move %s into place: %w", key, err)
	}

	return key, nil
}

// Open returns a reader for the stored object
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.abs(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the stored object; removing a missing key is not an error
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.abs(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the key is present
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.abs(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// LocalPath returns the real path directly: no staging needed
func (s *LocalStorage) LocalPath(ctx context.Context, key string) (string, func(), error) {
	path := s.abs(key)
	if _, err := os.Stat(path); err != nil {
		return "", nil, fmt.Errorf("object %s not found: %w", key, err)
	}
	return path, func() {}, nil
}

// URL returns a relative download path served by the API itself
func (s *LocalStorage) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "/" + filepath.ToSlash(filepath.Clean(key)), nil
}
