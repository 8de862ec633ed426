package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object is a file waiting to be stored.
type Object struct {
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores objects in a fixed bucket and hands back public URLs.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
	Remove(ctx context.Context, url string) error
}

type Config struct {
	Driver        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

func New(ctx context.Context, cfg *Config) (Uploader, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinioUploader(ctx, cfg)
	case "s3":
		return NewS3Uploader(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ObjectKey builds a collision-free key under folder, keeping the
// original file extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	key := uuid.New().String() + ext
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return key
	}
	return folder + "/" + key
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// keyFromURL strips base from a URL produced by publicURL.
func keyFromURL(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
