package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Package storage persists article snapshots in a remote (or local) blob store.

// ErrObjectNotFound is returned by Bucket.Get for keys that do not exist.
var ErrObjectNotFound = errors.New("object not found")

// Bucket is a flat key -> blob map inside one logical container.
// Put replaces the whole object in a single upload; readers never observe a
// partial write.
type Bucket interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

const (
	TypeGCS    = "gcs"
	TypeS3     = "s3"
	TypeBBolt  = "bbolt"
	TypeMemory = "memory"
)

// Options selects and configures a Bucket backend.
type Options struct {
	Type   string
	Bucket string

	GCSCredentialsFile string

	S3Region        string
	S3Endpoint      string
	AccessKeyID     string
	SecretAccessKey string

	BBoltPath string
}

// NewBucket creates the configured storage backend.
func NewBucket(ctx context.Context, opts Options) (Bucket, error) {
	typ := strings.TrimSpace(strings.ToLower(opts.Type))
	name := strings.TrimSpace(opts.Bucket)
	if name == "" && typ != TypeMemory && typ != "none" {
		return nil, fmt.Errorf("%s storage requires a bucket name", typ)
	}

	switch typ {
	case TypeMemory, "none":
		return NewMemoryBucket(), nil
	case TypeBBolt:
		if strings.TrimSpace(opts.BBoltPath) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		b, err := openBolt(opts.BBoltPath, name)
		if err != nil {
			return nil, err
		}
		return b, nil
	case TypeGCS, "":
		b, err := openGCS(ctx, name, opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	case TypeS3:
		b, err := openS3(ctx, name, opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

