package app

import (
	"context"
	"fmt"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/storage"
)

// SnapshotReader is the read side of the snapshot store.
type SnapshotReader interface {
	Get(ctx context.Context, key string) (domain.Batch, bool, error)
	ListSnapshots(ctx context.Context) ([]storage.Snapshot, error)
}

// NewsData is what a front-end gets for one source.
type NewsData struct {
	Source domain.SourceID `json:"source" yaml:"source"`
	Label  string          `json:"label" yaml:"label"`
	Found  bool            `json:"found" yaml:"found"`
	Batch  domain.Batch    `json:"batch" yaml:"batch"`
}

// NewsReader serves stored snapshots.
type NewsReader struct {
	store SnapshotReader
}

func NewNewsReader(store SnapshotReader) *NewsReader {
	return &NewsReader{store: store}
}

// GetNewsData returns the latest snapshot for source. A source that was
// never ingested comes back with Found=false and no error.
func (r *NewsReader) GetNewsData(ctx context.Context, source domain.SourceID) (NewsData, error) {
	if !source.Valid() {
		return NewsData{}, fmt.Errorf("source %d: %w", int(source), domain.ErrSourceNotFound)
	}

	out := NewsData{
		Source: source,
		Label:  source.Label(),
		Batch:  domain.Batch{Articles: []domain.Article{}},
	}

	batch, ok, err := r.store.Get(ctx, storage.SnapshotKey(source))
	if err != nil {
		return NewsData{}, fmt.Errorf("read %s news: %w", source.Name(), err)
	}
	if ok {
		out.Found = true
		out.Batch = batch
	}
	return out, nil
}

// All returns every stored snapshot keyed as in the bucket.
func (r *NewsReader) All(ctx context.Context) ([]storage.Snapshot, error) {
	snaps, err := r.store.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}
