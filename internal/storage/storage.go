package storage

import (
	"context"
	"fmt"
	"io"
)

// BlobStore abstracts where chat attachments live. The media-deletion sweep
// only needs Delete; the chat upload path needs Save.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
}

type Config struct {
	Type      string // "local" or "s3"
	BaseDir   string // local only
	BaseURL   string
	Bucket    string
	Region    string
	Endpoint  string // custom S3-compatible endpoint (e.g. R2)
	AccessKey string
	SecretKey string
}

func New(cfg Config) (BlobStore, error) {
	switch cfg.Type {
	case "s3":
		return NewS3Storage(cfg)
	case "", "local":
		return NewLocalStorage(cfg.BaseDir, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
