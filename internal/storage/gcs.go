package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// gcsObjects is the subset of a GCS bucket handle used by gcsBucket.
type gcsObjects interface {
	NewWriter(ctx context.Context, key string) io.WriteCloser
	NewReader(ctx context.Context, key string) (io.ReadCloser, error)
	Objects(ctx context.Context) gcsObjectIterator
}

// gcsObjectIterator yields object attributes until iterator.Done.
type gcsObjectIterator interface {
	Next() (*gcs.ObjectAttrs, error)
}

// gcsHandle adapts *gcs.BucketHandle to gcsObjects.
type gcsHandle struct {
	bucket *gcs.BucketHandle
}

func (h gcsHandle) NewWriter(ctx context.Context, key string) io.WriteCloser {
	w := h.bucket.Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	return w
}

func (h gcsHandle) NewReader(ctx context.Context, key string) (io.ReadCloser, error) {
	return h.bucket.Object(key).NewReader(ctx)
}

func (h gcsHandle) Objects(ctx context.Context) gcsObjectIterator {
	return h.bucket.Objects(ctx, nil)
}

// gcsBucket stores objects in a Google Cloud Storage bucket.
type gcsBucket struct {
	objects gcsObjects
	client  io.Closer
}

func openGCS(ctx context.Context, name string, opts Options) (*gcsBucket, error) {
	var clientOpts []option.ClientOption
	if opts.GCSCredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.GCSCredentialsFile))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &gcsBucket{objects: gcsHandle{bucket: client.Bucket(name)}, client: client}, nil
}

// Put uploads data as one object; GCS only makes it visible once the writer closes.
func (g *gcsBucket) Put(ctx context.Context, key string, data []byte) error {
	w := g.objects.NewWriter(ctx, key)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gcs object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gcs object %s: %w", key, err)
	}
	return nil
}

func (g *gcsBucket) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := g.objects.NewReader(ctx, key)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open gcs object %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gcs object %s: %w", key, err)
	}
	return data, nil
}

func (g *gcsBucket) List(ctx context.Context) ([]string, error) {
	var keys []string
	it := g.objects.Objects(ctx)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gcs objects: %w", err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (g *gcsBucket) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
