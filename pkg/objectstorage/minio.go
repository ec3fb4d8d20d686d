// Package objectstorage wraps the object store behind a small interface so
// services (and their tests) never touch the minio client directly.
package objectstorage

import (
	"context"
	"fmt"
	"io"

	"rma-system/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ObjectStorage interface {
	Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, bucket, key string) error
}

type MinioStorage struct {
	client *minio.Client
	region string
}

func New(cfg config.MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &MinioStorage{client: client, region: cfg.Region}, nil
}

// EnsureBuckets makes sure the given buckets exist before the server starts
// taking uploads.
func (s *MinioStorage) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
				return fmt.Errorf("make bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, bucket, key, reader, size, opts); err != nil {
		return fmt.Errorf("upload object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *MinioStorage) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download object %s/%s: %w", bucket, key, err)
	}
	// GetObject is lazy; Stat forces the error for a missing key now instead
	// of on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat object %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

func (s *MinioStorage) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}
