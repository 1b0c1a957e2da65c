package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

// Storage abstracts where uploaded media and rendered documents live. Keys
// are slash-separated relative paths ("uploads/x.mp4", "outputs/<id>/y.docx").
type Storage interface {
	// Save writes the reader under key and returns the key
	Save(ctx context.Context, key string, reader io.Reader, size int64) (string, error)

	// Open returns a reader for the stored object
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the stored object; removing a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present
	Exists(ctx context.Context, key string) (bool, error)

	// LocalPath returns a real filesystem path for the object. Remote
	// backends stage the object to the temp dir; cleanup releases the
	// staged copy and is never nil.
	LocalPath(ctx context.Context, key string) (string, func(), error)

	// URL returns an address a client can fetch the object from
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// NewStorage selects the backend from configuration
func NewStorage(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return NewMinIOStorage(cfg)
	case "local", "":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// NextAvailableKey resolves filename collisions the way a desktop would:
// name.ext, name_1.ext, name_2.ext, ... against any backend.
func NextAvailableKey(ctx context.Context, s Storage, key string) (string, error) {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return key, nil
	}

	ext := filepath.Ext(key)
	base := strings.TrimSuffix(key, ext)
	for i := 1; i <= 10000; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		exists, err := s.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find an available key for %s", key)
}

// contentTypeByExt maps media extensions to MIME types for object storage
func contentTypeByExt(key string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(key), ".")) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "flac":
		return "audio/flac"
	case "aac":
		return "audio/aac"
	case "m4a":
		return "audio/mp4"
	case "ogg":
		return "audio/ogg"
	case "wma":
		return "audio/x-ms-wma"
	case "mp4":
		return "video/mp4"
	case "avi":
		return "video/x-msvideo"
	case "mov":
		return "video/quicktime"
	case "mkv":
		return "video/x-matroska"
	case "webm":
		return "video/webm"
	case "flv":
		return "video/x-flv"
	case "wmv":
		return "video/x-ms-wmv"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		return "application/pdf"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
