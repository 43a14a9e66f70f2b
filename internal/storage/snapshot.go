package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
)

// SnapshotKey returns the object key a source's batch is stored under.
func SnapshotKey(id domain.SourceID) string {
	return id.Name() + "-news"
}

// Snapshot pairs a stored batch with its object key.
type Snapshot struct {
	Key   string       `json:"key" yaml:"key"`
	Batch domain.Batch `json:"batch" yaml:"batch"`
}

// SnapshotStore reads and writes article batches. It knows nothing about
// sources beyond the key it is handed, and keeps no history.
type SnapshotStore struct {
	bucket Bucket
	log    logger.Logger
}

// NewSnapshotStore wraps bucket.
func NewSnapshotStore(bucket Bucket, log logger.Logger) *SnapshotStore {
	return &SnapshotStore{bucket: bucket, log: logger.Ensure(log)}
}

// Put serialises batch and replaces whatever is stored at key.
func (s *SnapshotStore) Put(ctx context.Context, key string, batch domain.Batch) error {
	if batch.Articles == nil {
		batch.Articles = []domain.Article{}
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	if err := s.bucket.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}
	s.log.DebugObj("snapshot stored", "snapshot_meta", map[string]any{
		"key":      key,
		"articles": batch.Len(),
		"bytes":    len(data),
	})
	return nil
}

// Get returns the batch at key. ok is false, with a nil error, when nothing
// has been stored there yet.
func (s *SnapshotStore) Get(ctx context.Context, key string) (batch domain.Batch, ok bool, err error) {
	data, err := s.bucket.Get(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return domain.Batch{}, false, nil
	}
	if err != nil {
		return domain.Batch{}, false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	batch, err = decodeBatch(data)
	if err != nil {
		return domain.Batch{}, false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return batch, true, nil
}

// ListSnapshots returns every stored snapshot. Objects removed between
// listing and reading are skipped.
func (s *SnapshotStore) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	keys, err := s.bucket.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	out := make([]Snapshot, 0, len(keys))
	for _, key := range keys {
		batch, ok, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log.DebugObj("snapshot vanished during listing", "key", key)
			continue
		}
		out = append(out, Snapshot{Key: key, Batch: batch})
	}
	return out, nil
}

// ListAll returns the batches of every stored snapshot.
func (s *SnapshotStore) ListAll(ctx context.Context) ([]domain.Batch, error) {
	snaps, err := s.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Batch, len(snaps))
	for i, snap := range snaps {
		out[i] = snap.Batch
	}
	return out, nil
}

// Close releases the underlying bucket.
func (s *SnapshotStore) Close() error {
	if s == nil || s.bucket == nil {
		return nil
	}
	return s.bucket.Close()
}

func decodeBatch(data []byte) (domain.Batch, error) {
	var batch domain.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return domain.Batch{}, err
	}
	if batch.Articles == nil {
		batch.Articles = []domain.Article{}
	}
	return batch, nil
}
