package app

import (
	"context"
	"errors"
	"testing"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/storage"
)

type brokenReader struct{}

func (brokenReader) Get(context.Context, string) (domain.Batch, bool, error) {
	return domain.Batch{}, false, errors.New("bucket unreachable")
}

func (brokenReader) ListSnapshots(context.Context) ([]storage.Snapshot, error) {
	return nil, errors.New("bucket unreachable")
}

func TestNewsReaderGetNewsData(t *testing.T) {
	ctx := context.Background()
	store := storage.NewSnapshotStore(storage.NewMemoryBucket(), nil)
	batch := domain.Batch{FetchedAt: 1718006400.5, Articles: []domain.Article{{Title: "A", URL: "https://www.bbc.com/news/a"}}}
	if err := store.Put(ctx, "WORLD-news", batch); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "UA-news", domain.Batch{FetchedAt: 1718006401}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reader := NewNewsReader(store)

	world, err := reader.GetNewsData(ctx, domain.SourceWorld)
	if err != nil || !world.Found || world.Batch.Len() != 1 || world.Label != "Новини Світу" {
		t.Fatalf("WORLD = %#v, %v", world, err)
	}

	ua, err := reader.GetNewsData(ctx, domain.SourceUA)
	if err != nil || !ua.Found || ua.Batch.Len() != 0 {
		t.Fatalf("present empty snapshot must be found: %#v, %v", ua, err)
	}

	all, err := reader.All(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("All = %d, %v", len(all), err)
	}
}

func TestNewsReaderAbsentSnapshot(t *testing.T) {
	reader := NewNewsReader(storage.NewSnapshotStore(storage.NewMemoryBucket(), nil))

	data, err := reader.GetNewsData(context.Background(), domain.SourceUA)
	if err != nil {
		t.Fatalf("absent snapshot must not be an error: %v", err)
	}
	if data.Found || data.Batch.Articles == nil || data.Source != domain.SourceUA {
		t.Fatalf("unexpected absent data %#v", data)
	}
}

func TestNewsReaderErrors(t *testing.T) {
	reader := NewNewsReader(brokenReader{})
	if _, err := reader.GetNewsData(context.Background(), domain.SourceWorld); err == nil {
		t.Fatalf("expected storage error")
	}
	if _, err := reader.All(context.Background()); err == nil {
		t.Fatalf("expected list error")
	}
	if _, err := reader.GetNewsData(context.Background(), domain.SourceID(42)); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}
