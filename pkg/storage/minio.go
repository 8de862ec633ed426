package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioUploader(ctx context.Context, cfg *Config) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioUploader{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

func (m *MinioUploader) Upload(ctx context.Context, obj Object) (string, error) {
	key := ObjectKey(obj.Folder, obj.Filename)
	_, err := m.client.PutObject(ctx, m.bucket, key, obj.Body, obj.Size,
		minio.PutObjectOptions{ContentType: obj.ContentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return publicURL(m.baseURL, key), nil
}

func (m *MinioUploader) Remove(ctx context.Context, url string) error {
	key, ok := keyFromURL(m.baseURL, url)
	if !ok {
		return fmt.Errorf("url %q is not served from bucket %s", url, m.bucket)
	}
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
