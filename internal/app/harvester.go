package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wwntg/news-harvester/internal/config"
	"github.com/wwntg/news-harvester/internal/crawler"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
	"github.com/wwntg/news-harvester/internal/storage"
	"github.com/wwntg/news-harvester/pkg/httpclient"
	"github.com/wwntg/news-harvester/pkg/providers"
	"github.com/wwntg/news-harvester/pkg/publishers"
)

// Harvester is the ingestion runtime: it owns the snapshot store, the
// publishers fanout and the crawler service, and runs one pass or a
// scheduled loop.
type Harvester struct {
	interval time.Duration
	sources  []providers.SourceConfig
	fanout   *publishers.Fanout
	service  *crawler.Service
	store    *storage.SnapshotStore
	log      logger.Logger
}

// OpenStore opens the configured blob backend wrapped in a snapshot store.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage.SnapshotStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	bucket, err := storage.NewBucket(ctx, storage.Options{
		Type:               cfg.StorageType,
		Bucket:             cfg.StorageBucket,
		GCSCredentialsFile: cfg.GCSCredentialsFile,
		S3Region:           cfg.S3Region,
		S3Endpoint:         cfg.S3Endpoint,
		AccessKeyID:        cfg.AWSAccessKeyID,
		SecretAccessKey:    cfg.AWSSecretAccessKey,
		BBoltPath:          cfg.BBoltPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":   cfg.StorageType,
		"bucket": cfg.StorageBucket,
	})
	return storage.NewSnapshotStore(bucket, log), nil
}

// NewHarvester builds a harvester runtime from config: sources file,
// publishers file and storage backend.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log = logger.Ensure(log)

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	h, err := newHarvester(cfg, store, providers.DefaultHTTPClient(cfg.FetchTimeout), fanout, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return h, nil
}

func newHarvester(cfg *config.Config, store *storage.SnapshotStore, client httpclient.Client, fanout *publishers.Fanout, log logger.Logger) (*Harvester, error) {
	log = logger.Ensure(log)

	sourceReg, err := providers.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	sources := sourceReg.Enabled()
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	ids := make([]string, 0, len(sources))
	for _, s := range sources {
		ids = append(ids, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(ids),
		"ids":   ids,
	})

	scrapers, err := crawler.NewScrapers(sources, providers.DefaultExtractorRegistry(log), client, cfg.UserAgent, log)
	if err != nil {
		return nil, fmt.Errorf("build scrapers: %w", err)
	}
	batchSources := make([]crawler.BatchSource, len(scrapers))
	for i, s := range scrapers {
		batchSources[i] = s
	}

	var pub crawler.EventPublisher
	if fanout.Size() > 0 {
		pub = fanout
	}

	return &Harvester{
		interval: cfg.Interval,
		sources:  sources,
		fanout:   fanout,
		service:  crawler.NewService(batchSources, store, pub, log),
		store:    store,
		log:      log,
	}, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	clients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(clients), nil
}

// RunOnce performs a single ingest pass across all enabled sources.
func (h *Harvester) RunOnce(ctx context.Context) (map[domain.SourceID]int, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("harvester is not initialized")
	}

	start := time.Now()
	h.log.InfoObj("ingest started", "ingest_meta", map[string]any{
		"sources_count": len(h.sources),
		"started_at":    start.UTC(),
	})

	counts, err := h.service.RunAll(ctx)

	summary := make(map[string]int, len(counts))
	for id, n := range counts {
		summary[id.Name()] = n
	}
	h.log.InfoObj("ingest completed", "ingest_meta", map[string]any{
		"counts":     summary,
		"elapsed_ms": time.Since(start).Milliseconds(),
		"failed":     err != nil,
	})
	return counts, err
}

// Run performs one pass and, when an interval is configured, keeps ingesting
// on a ticker until ctx is cancelled. Scheduled pass failures are logged.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}

	_, err := h.RunOnce(ctx)
	if h.interval <= 0 {
		return err
	}
	if err != nil {
		h.log.ErrorObj("initial ingest failed", "error", err.Error())
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"sources_count":    len(h.sources),
		"publishers_count": h.fanout.Size(),
		"interval":         h.interval.String(),
	})

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if _, err := h.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				h.log.ErrorObj("scheduled ingest failed", "error", err.Error())
			}
		}
	}
}

// Close releases the publishers and the storage backend.
func (h *Harvester) Close() error {
	if h == nil {
		return nil
	}
	var errs []error
	if err := h.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	return errors.Join(errs...)
}
