package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
	"github.com/wwntg/news-harvester/internal/storage"
	"github.com/wwntg/news-harvester/pkg/publishers"
)

// Service runs every registered scraper in order and stores each batch.
type Service struct {
	scrapers  []BatchSource
	store     SnapshotWriter
	publisher EventPublisher
	log       logger.Logger
}

// NewService wires a crawler with its scrapers, the snapshot store and an
// optional publisher (nil disables notifications).
func NewService(scrapers []BatchSource, store SnapshotWriter, publisher EventPublisher, log logger.Logger) *Service {
	cp := make([]BatchSource, 0, len(scrapers))
	for _, s := range scrapers {
		if s != nil {
			cp = append(cp, s)
		}
	}
	return &Service{
		scrapers:  cp,
		store:     store,
		publisher: publisher,
		log:       logger.Ensure(log),
	}
}

// Sources lists the sources this service ingests, in run order.
func (s *Service) Sources() []domain.SourceID {
	out := make([]domain.SourceID, len(s.scrapers))
	for i, sc := range s.scrapers {
		out[i] = sc.Source()
	}
	return out
}

// RunAll ingests every source sequentially and returns the article count per
// source. A source that fails records 0, keeps its previous snapshot and does
// not stop the others; its error is part of the joined error returned.
func (s *Service) RunAll(ctx context.Context) (map[domain.SourceID]int, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("crawler service is not initialized")
	}
	if len(s.scrapers) == 0 {
		return nil, fmt.Errorf("no scrapers configured for crawling")
	}

	counts := make(map[domain.SourceID]int, len(s.scrapers))
	var errs []error

	for _, sc := range s.scrapers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		n, err := s.runSource(ctx, sc)
		counts[sc.Source()] = n
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("source ingest failed", "source_error", map[string]any{
				"source":  sc.Source().Name(),
				"address": sc.Address(),
				"error":   err.Error(),
			})
		}
	}

	return counts, errors.Join(errs...)
}

func (s *Service) runSource(ctx context.Context, sc BatchSource) (int, error) {
	key := storage.SnapshotKey(sc.Source())
	s.log.InfoObj("loading source", "source_meta", map[string]any{
		"source":  sc.Source().Name(),
		"address": sc.Address(),
		"key":     key,
	})

	batch, err := sc.FetchAndParse(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", sc.Source().Name(), err)
	}

	if err := s.store.Put(ctx, key, batch); err != nil {
		return 0, fmt.Errorf("store %s: %w", sc.Source().Name(), err)
	}

	s.log.InfoObj("source snapshot saved", "source_result", map[string]any{
		"source":   sc.Source().Name(),
		"key":      key,
		"articles": batch.Len(),
	})
	s.announce(ctx, sc.Source(), key, batch)
	return batch.Len(), nil
}

func (s *Service) announce(ctx context.Context, id domain.SourceID, key string, batch domain.Batch) {
	if s.publisher == nil {
		return
	}
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(id, key, batch))
	if err != nil {
		s.log.WarnObj("snapshot event publish failed", "publish_error", map[string]any{
			"source":    id.Name(),
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}
