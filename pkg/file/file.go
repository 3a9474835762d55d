// Package file stores binary blobs by key. Backends: MongoDB GridFS and
// Amazon S3 (or any S3-compatible service).
package file

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DefaultContentType is stored when a caller sends no content type.
const DefaultContentType = "application/octet-stream"

// Info describes a stored blob.
type Info struct {
	Key         string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// Storage keeps one blob per key. Put replaces an existing blob.
type Storage interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, Info, error)
	Delete(ctx context.Context, key string) error
}

// Config selects the backend: "gridfs" (default) or "s3".
type Config struct {
	Driver string `env:"FILE_STORAGE" envDefault:"gridfs"`
	Bucket string `env:"FILE_BUCKET" envDefault:"gemaelde"`
	S3     S3Config
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}

func contentTypeOr(ct string) string {
	if ct == "" {
		return DefaultContentType
	}
	return ct
}

// NewFromConfig builds the backend named by cfg.Driver. db is only used by GridFS.
func NewFromConfig(ctx context.Context, cfg Config, db *mongo.Database) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "gridfs":
		if db == nil {
			return nil, fmt.Errorf("%w: gridfs needs a database", ErrInvalidConfig)
		}
		return NewGridFSStorage(db, cfg.Bucket), nil
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
	}
}
