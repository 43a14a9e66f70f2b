package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// boltBucket implements a Bucket backed by BoltDB. The logical bucket name
// becomes the bolt bucket every object lives in.
type boltBucket struct {
	db   *bolt.DB
	name []byte
}

// openBolt initializes a BoltDB-backed Bucket.
func openBolt(path, bucket string) (*boltBucket, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltBucket{db: db, name: []byte(bucket)}, nil
}

// Close closes the BoltDB store.
func (b *boltBucket) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Put stores data under key in a single write transaction.
func (b *boltBucket) Put(_ context.Context, key string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", b.name)
		}
		return bucket.Put([]byte(key), data)
	})
}

// Get returns a copy of the object; bolt values are only valid inside the transaction.
func (b *boltBucket) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", b.name)
		}
		value := bucket.Get([]byte(key))
		if value == nil {
			return ErrObjectNotFound
		}
		out = append([]byte(nil), value...)
		return nil
	})
	return out, err
}

// List returns every key in byte order.
func (b *boltBucket) List(_ context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", b.name)
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Delete removes key. Used by maintenance tooling and tests.
func (b *boltBucket) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.name)
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", b.name)
		}
		return bucket.Delete([]byte(key))
	})
}
