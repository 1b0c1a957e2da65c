package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

// MinIOStorage stores objects in a MinIO (or any S3-compatible) bucket.
// Selected with STORAGE_BACKEND=minio; pipeline stages that shell out to
// ffmpeg or whisper.cpp stage objects to the temp dir first.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	tempDir string
}

// NewMinIOStorage creates the client and ensures the bucket exists
func NewMinIOStorage(cfg *config.Config) (*MinIOStorage, error) {
	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinIOStorage{
		client:  minioClient,
		bucket:  cfg.Storage.BucketName,
		tempDir: cfg.Storage.TempDir,
	}

	if s.tempDir == "" {
		s.tempDir = os.TempDir()
	}
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.ensureBucket(ctx, cfg.Storage.PublicRead); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return s, nil
}

// ensureBucket ensures the bucket exists, optionally with a public read policy
func (s *MinIOStorage) ensureBucket(ctx context.Context, publicRead bool) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if publicRead {
		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [
				{
					"Effect": "Allow",
					"Principal": {"AWS": ["*"]},
					"Action": ["s3:GetObject"],
					"Resource": ["arn:aws:s3:::%s/*"]
				}
			]
		}`, s.bucket)

		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			return fmt.Errorf("failed to set bucket policy: %w", err)
		}
	}

	return nil
}

// Save writes the reader under key and returns the key
func (s *MinIOStorage) Save(ctx context.Context, key string, reader io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentTypeByExt(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Open returns a reader for the stored object
func (s *MinIOStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return obj, nil
}

// Delete removes the stored object; removing a missing key is not an error
func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the key is present
func (s *MinIOStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

// LocalPath stages the object into the temp dir and returns the staged path
func (s *MinIOStorage) LocalPath(ctx context.Context, key string) (string, func(), error) {
	obj, err := s.Open(ctx, key)
	if err != nil {
		return "", nil, err
	}
	defer obj.Close()

	staged, err := os.CreateTemp(s.tempDir, "staged-*"+filepath.Ext(key))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	stagedPath := staged.Name()

	if _, err := io.Copy(staged, obj); err != nil {
		staged.Close()
		os.Remove(stagedPath)
		return "", nil, fmt.Errorf("failed to stage %s: %w", key, err)
	}
	if err := staged.Close(); err != nil {
		os.Remove(stagedPath)
		return "", nil, fmt.Errorf("failed to close staged file: %w", err)
	}

	cleanup := func() { os.Remove(stagedPath) }
	return stagedPath, cleanup, nil
}

// URL returns a presigned GET URL for the object
func (s *MinIOStorage) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = time.Hour
	}
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}
