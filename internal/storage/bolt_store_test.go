package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestBoltBucketPutGetList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "snapshots.db")

	bucket, err := openBolt(path, "my_news_bucket")
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer bucket.Close()

	if _, err := bucket.Get(ctx, "UA-news"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}

	if err := bucket.Put(ctx, "WORLD-news", []byte(`{"fetched_at":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := bucket.Put(ctx, "UA-news", []byte(`{"fetched_at":2}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := bucket.Get(ctx, "UA-news")
	if err != nil || string(data) != `{"fetched_at":2}` {
		t.Fatalf("Get = %q, %v", data, err)
	}

	keys, err := bucket.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 || keys[0] != "UA-news" || keys[1] != "WORLD-news" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := bucket.Delete("UA-news"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := bucket.Get(ctx, "UA-news"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected deleted key to be missing, got %v", err)
	}
}

func TestBoltBucketSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots.db")

	first, err := NewBucket(ctx, Options{Type: TypeBBolt, Bucket: "news", BBoltPath: path})
	if err != nil {
		t.Fatalf("NewBucket: %v", err)
	}
	store := NewSnapshotStore(first, nil)
	if err := store.Put(ctx, "UA-news", sampleBatch()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewBucket(ctx, Options{Type: TypeBBolt, Bucket: "news", BBoltPath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, ok, err := NewSnapshotStore(second, nil).Get(ctx, "UA-news")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if got.Len() != 3 {
		t.Fatalf("expected 3 articles, got %d", got.Len())
	}
}
