package crawler

import (
	"context"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/pkg/publishers"
)

// BatchSource produces one source's article batch per call.
type BatchSource interface {
	Source() domain.SourceID
	Address() string
	FetchAndParse(ctx context.Context) (domain.Batch, error)
}

// SnapshotWriter persists a batch under a key, replacing any previous one.
type SnapshotWriter interface {
	Put(ctx context.Context, key string, batch domain.Batch) error
}

// EventPublisher announces stored snapshots downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
